// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Router  RouterConfig  `mapstructure:"router"`
	Memory  MemoryConfig  `mapstructure:"memory"`
	Agents  AgentsConfig  `mapstructure:"agents"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RouterConfig holds the per-call settings the tool router and orchestrator run with.
type RouterConfig struct {
	DefaultTimeout      int     `mapstructure:"default_timeout"` // milliseconds
	MaxRetries          int     `mapstructure:"max_retries"`
	ParallelismLimit    int     `mapstructure:"parallelism_limit"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	EnableFallbacks     bool    `mapstructure:"enable_fallbacks"`
	EnableHandoffs      bool    `mapstructure:"enable_handoffs"`
}

// StepTimeout returns the per-step timeout as a duration.
func (r RouterConfig) StepTimeout() time.Duration {
	return time.Duration(r.DefaultTimeout) * time.Millisecond
}

// MemoryConfig bounds the per-session conversation memory.
type MemoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
	SessionTTL int `mapstructure:"session_ttl"` // seconds
}

// AgentsConfig points at the optional capability override file.
type AgentsConfig struct {
	RegistryFile string `mapstructure:"registry_file"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.Router.ParallelismLimit < 1 {
		return fmt.Errorf("router.parallelism_limit must be >= 1, got %d", cfg.Router.ParallelismLimit)
	}
	if cfg.Router.MaxRetries < 0 {
		return fmt.Errorf("router.max_retries must be >= 0, got %d", cfg.Router.MaxRetries)
	}
	if cfg.Router.ConfidenceThreshold < 0 || cfg.Router.ConfidenceThreshold > 1 {
		return fmt.Errorf("router.confidence_threshold must be in [0,1], got %f", cfg.Router.ConfidenceThreshold)
	}
	if cfg.Memory.MaxEntries < 1 {
		return fmt.Errorf("memory.max_entries must be >= 1, got %d", cfg.Memory.MaxEntries)
	}
	return nil
}

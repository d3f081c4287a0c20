// cmd/copilot-server/main.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/database"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/observability"
	"premiumradar-core/internal/pipeline"
	"premiumradar-core/internal/server"
	"premiumradar-core/internal/session"
	"premiumradar-core/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting copilot server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("copilot-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.Redis
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(ctx, cfg.Redis)
		return err
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Agent Registry ---
	reg := agents.NewRegistry()
	if err := registry.Apply(reg, cfg.Agents.RegistryFile); err != nil {
		// Malformed registry data is the one hard startup failure.
		zapLog.Fatal("agent registry overrides failed", zap.Error(err))
	}
	zapLog.Info("Agent registry ready", zap.Strings("agents", reg.Agents()))

	// --- Build Pipeline and Session Store ---
	p := pipeline.New(reg, cfg.Router, log)
	store := session.NewStore(
		redis.Client,
		time.Duration(cfg.Memory.SessionTTL)*time.Second,
		cfg.Memory.MaxEntries,
		log,
	)
	executor := server.NewSimulatedExecutor(reg)

	srv := server.New(p, store, executor, obs, log)

	// --- Graceful Shutdown ---
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx, cfg.Server.Address); err != nil {
		zapLog.Fatal("http server failed", zap.Error(err))
	}

	zapLog.Info("Copilot server stopped gracefully")
}

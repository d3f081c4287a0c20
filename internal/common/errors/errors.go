// Package errors provides standardized error handling for the copilot pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Static data / startup errors. These are hard failures: the pipeline
	// never starts with a malformed registry.
	ErrCodeRegistryLoadFailed       ErrorCode = "REGISTRY_LOAD_FAILED"
	ErrCodeRegistryValidationFailed ErrorCode = "REGISTRY_VALIDATION_FAILED"

	// Session store errors. Retryable: Redis may come back.
	ErrCodeSessionLoadFailed ErrorCode = "SESSION_LOAD_FAILED"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"

	// Orchestration errors. Consumed by the retry loop; a step that
	// exhausts its budget surfaces STEP_EXHAUSTED in the plan result.
	ErrCodeStepTimeout   ErrorCode = "STEP_TIMEOUT"
	ErrCodeStepFailed    ErrorCode = "STEP_FAILED"
	ErrCodeStepExhausted ErrorCode = "STEP_EXHAUSTED"

	// Request errors (service boundary only).
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRegistryLoadFailedError creates a non-retryable registry load error.
func NewRegistryLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryLoadFailed,
		Message:   "Failed to load agent registry file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryValidationFailedError creates a non-retryable registry schema error.
func NewRegistryValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryValidationFailed,
		Message:   "Agent registry file failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionLoadFailedError creates a retryable session store error.
func NewSessionLoadFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionLoadFailed,
		Message:   "Failed to load session memory",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionSaveFailedError creates a retryable session store error.
func NewSessionSaveFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionSaveFailed,
		Message:   "Failed to save session memory",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepTimeoutError creates a retryable step timeout error.
func NewStepTimeoutError(stepID, agent string, timeoutMs int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepTimeout,
		Message:   "Step execution timed out",
		Details:   fmt.Sprintf("stepId: %s, agent: %s, timeoutMs: %d", stepID, agent, timeoutMs),
		Retryable: true,
		Metadata:  map[string]interface{}{"agent": agent},
		Timestamp: time.Now().UTC(),
	}
}

// NewStepFailedError creates a retryable step execution error.
func NewStepFailedError(stepID, agent string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepFailed,
		Message:   "Step execution failed",
		Details:   fmt.Sprintf("stepId: %s, agent: %s, error: %s", stepID, agent, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"agent": agent},
		Timestamp: time.Now().UTC(),
	}
}

// NewStepExhaustedError creates a non-retryable error for a step that spent
// its whole retry budget. Details aggregates the last attempt's error.
func NewStepExhaustedError(stepID, agent string, attempts int, lastErr string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepExhausted,
		Message:   "Step failed after exhausting retries",
		Details:   fmt.Sprintf("stepId: %s, agent: %s, attempts: %d, lastError: %s", stepID, agent, attempts, lastErr),
		Retryable: false,
		Metadata:  map[string]interface{}{"agent": agent, "attempts": attempts},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

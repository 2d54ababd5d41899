// Package errors provides structured error handling for the meal pipeline.
// Validation failure is deliberately absent from this taxonomy: it is a
// modeled outcome that drives the retry state machine, not an error.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Collaborator failures
	CodeGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	CodeGenerationTransient   ErrorCode = "GENERATION_TRANSIENT"
	CodePersistenceError      ErrorCode = "PERSISTENCE_ERROR"
	CodeCacheError            ErrorCode = "CACHE_ERROR"

	// Pipeline errors
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeMalformedCandidate ErrorCode = "MALFORMED_CANDIDATE"
	CodePipelineError      ErrorCode = "PIPELINE_ERROR"

	// Generic
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewGenerationUnavailableError signals a permanent generation collaborator
// failure: the session aborts with a recorded pipeline error.
func NewGenerationUnavailableError(cause error) *AppError {
	return NewAppError(
		CodeGenerationUnavailable,
		"Recipe generation service unavailable",
		"",
	).WithCause(cause)
}

// NewGenerationTransientError signals a transient generation failure that the
// caller retries once before treating as permanent.
func NewGenerationTransientError(cause error) *AppError {
	return NewAppError(
		CodeGenerationTransient,
		"Recipe generation temporarily unavailable",
		"",
	).WithCause(cause)
}

// NewRateLimitedError signals the per-user call-rate cap was exceeded.
func NewRateLimitedError(userID string, count int64) *AppError {
	return NewAppError(
		CodeRateLimited,
		"Generation rate limit exceeded",
		fmt.Sprintf("user %s has made %d calls in the current window", userID, count),
	).WithMetadata("user_id", userID).WithMetadata("count", count)
}

// NewMalformedCandidateError wraps a data-model construction failure. The
// calling step catches this and treats it as a validation failure feeding the
// retry loop, never as a crash.
func NewMalformedCandidateError(cause error) *AppError {
	return NewAppError(
		CodeMalformedCandidate,
		"Candidate recipe failed construction",
		"",
	).WithCause(cause)
}

// NewPersistenceError wraps a storage failure. Persistence is best-effort:
// call sites log this and continue.
func NewPersistenceError(operation string, cause error) *AppError {
	return NewAppError(
		CodePersistenceError,
		"Persistence operation failed",
		fmt.Sprintf("failed to %s", operation),
	).WithCause(cause)
}

// NewPipelineError records a hard session abort.
func NewPipelineError(message string, cause error) *AppError {
	return NewAppError(CodePipelineError, message, "").WithCause(cause)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsTransient reports whether an error represents a transient collaborator
// failure worth exactly one retry.
func IsTransient(err error) bool {
	return Is(err, CodeGenerationTransient)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return v[0].Message
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

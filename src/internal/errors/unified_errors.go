package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError is returned when a DCD binary cannot be resolved
type ConfigurationError struct {
	Name       string `json:"name"`
	Configured string `json:"configured,omitempty"`
}

func (e *ConfigurationError) Error() string {
	if e.Configured != "" {
		return fmt.Sprintf("%s binary not found (configured %q is not a file and %s is not on PATH)", e.Name, e.Configured, e.Name)
	}
	return fmt.Sprintf("%s binary not found", e.Name)
}

// BackendError is returned when the completion client wrote to stderr
type BackendError struct {
	Args   []string `json:"args"`
	Stderr string   `json:"stderr"`
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error running %s: %s", strings.Join(e.Args, " "), strings.TrimSpace(e.Stderr))
}

// MalformedRecordError is returned when a response line does not follow the record format
type MalformedRecordError struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %s", e.Line, e.Reason)
}

// ValidationError represents parameter validation errors
type ValidationError struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for parameter '%s': %s", e.Parameter, e.Message)
}

// ProcessError represents helper process failures
type ProcessError struct {
	Command string `json:"command"`
	Cause   error  `json:"cause,omitempty"`
	Type    string `json:"type"` // "start", "stop", "communication"
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process error (%s): %s - %v", e.Type, e.Command, e.Cause)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// Error constructors

// NewConfigurationError creates a binary-not-found error
func NewConfigurationError(name, configured string) *ConfigurationError {
	return &ConfigurationError{
		Name:       name,
		Configured: configured,
	}
}

// NewBackendError creates a backend error from the invocation and its stderr output
func NewBackendError(args []string, stderr []byte) *BackendError {
	return &BackendError{
		Args:   append([]string(nil), args...),
		Stderr: string(stderr),
	}
}

// NewMalformedRecordError creates a malformed record error
func NewMalformedRecordError(line, reason string) *MalformedRecordError {
	return &MalformedRecordError{
		Line:   line,
		Reason: reason,
	}
}

// NewValidationError creates a new validation error for the specified parameter
func NewValidationError(parameter, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Message:   message,
	}
}

// NewProcessError creates a new process error
func NewProcessError(command, errorType string, cause error) *ProcessError {
	return &ProcessError{
		Command: command,
		Type:    errorType,
		Cause:   cause,
	}
}

// Error classification functions

// IsConfigurationError checks if the error is a binary resolution error
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsBackendError checks if the error came from backend stderr output
func IsBackendError(err error) bool {
	var target *BackendError
	return errors.As(err, &target)
}

// IsMalformedRecordError checks if the error is a response parsing error
func IsMalformedRecordError(err error) bool {
	var target *MalformedRecordError
	return errors.As(err, &target)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsProcessError checks if the error is a process-related error
func IsProcessError(err error) bool {
	var target *ProcessError
	return errors.As(err, &target)
}

// IsTimeoutError checks if the error is a deadline error
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// Category returns a category string for error classification
func Category(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsConfigurationError(err):
		return "configuration"
	case IsBackendError(err):
		return "backend"
	case IsMalformedRecordError(err):
		return "malformed"
	case IsValidationError(err):
		return "validation"
	case IsTimeoutError(err):
		return "timeout"
	case IsProcessError(err):
		return "process"
	default:
		return "general"
	}
}

// WrapWithContext wraps an error with operation context
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Logger setup errors
	ErrCodeLogDirCreate ErrorCode = "LOG_DIR_CREATE"
	ErrCodeLogWrite     ErrorCode = "LOG_WRITE"
	ErrCodeWatchFailed  ErrorCode = "WATCH_FAILED"

	// Process table errors
	ErrCodeEnumerationFailed ErrorCode = "ENUMERATION_FAILED"

	// Instance errors
	ErrCodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"
	ErrCodeNotRunning     ErrorCode = "NOT_RUNNING"

	// Spec generator errors
	ErrCodeInputNotFound  ErrorCode = "INPUT_NOT_FOUND"
	ErrCodeGenerateFailed ErrorCode = "GENERATE_FAILED"

	// General errors
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// DevlogError represents a structured error with context
type DevlogError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DevlogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DevlogError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *DevlogError) WithDetail(key string, value interface{}) *DevlogError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *DevlogError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new DevlogError
func New(code ErrorCode, message string) *DevlogError {
	return &DevlogError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DevlogError
func Wrap(err error, code ErrorCode, message string) *DevlogError {
	return &DevlogError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether any error in err's chain is a DevlogError with the given code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the code of the outermost DevlogError in err's chain.
func GetCode(err error) ErrorCode {
	var devErr *DevlogError
	if errors.As(err, &devErr) {
		return devErr.Code
	}
	return ""
}

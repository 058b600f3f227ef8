package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *DevlogError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *DevlogError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// LogDirCreate creates an error for a log directory that could not be created.
func LogDirCreate(path string, err error) *DevlogError {
	return Wrap(err, ErrCodeLogDirCreate, fmt.Sprintf("cannot create log directory: %s", path)).
		WithDetail("path", path)
}

// LogWrite creates an error for a failed append to a markdown log.
func LogWrite(path string, err error) *DevlogError {
	return Wrap(err, ErrCodeLogWrite, fmt.Sprintf("cannot write log: %s", path)).
		WithDetail("path", path)
}

// WatchFailed creates an error for a directory that could not be subscribed.
func WatchFailed(path string, err error) *DevlogError {
	return Wrap(err, ErrCodeWatchFailed, fmt.Sprintf("cannot watch directory: %s", path)).
		WithDetail("path", path)
}

// EnumerationFailed creates an error for a failed process table listing.
func EnumerationFailed(err error) *DevlogError {
	return Wrap(err, ErrCodeEnumerationFailed, "cannot enumerate processes")
}

// AlreadyRunning creates an error for a second instance start attempt.
func AlreadyRunning(pid int) *DevlogError {
	return New(ErrCodeAlreadyRunning, fmt.Sprintf("devlog is already running (PID %d)", pid)).
		WithDetail("pid", pid)
}

// NotRunning creates an error for commands that need a running instance.
func NotRunning() *DevlogError {
	return New(ErrCodeNotRunning, "devlog is not running")
}

// InputNotFound creates an error for a missing conversation file.
func InputNotFound(path string) *DevlogError {
	return New(ErrCodeInputNotFound, fmt.Sprintf("Conversation file not found: %s", path)).
		WithDetail("path", path)
}

// GenerateFailed wraps a failure while producing a specification document.
func GenerateFailed(err error) *DevlogError {
	return Wrap(err, ErrCodeGenerateFailed, "specification generation failed")
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *DevlogError {
	return New(ErrCodeInvalidInput, reason)
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/devlog/errors"
)

// ErrorHandler prints friendly messages for devlog errors.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	devErr, _ := err.(*errors.DevlogError)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Pass --config or create .devlog.yml.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(h.Out, "Run 'devlog schema' to see the accepted keys.\n")

	case errors.ErrCodeLogDirCreate:
		fmt.Fprintf(h.Out, "❌ Cannot create log directory %v\n", detail(devErr, "path"))

	case errors.ErrCodeAlreadyRunning:
		fmt.Fprintf(h.Out, "❌ devlog is already running (PID %v)\n", detail(devErr, "pid"))
		fmt.Fprintf(h.Out, "Stop it with 'devlog stop' first.\n")

	case errors.ErrCodeNotRunning:
		fmt.Fprintf(h.Out, "devlog is not running\n")

	case errors.ErrCodeInputNotFound:
		if devErr != nil {
			fmt.Fprintf(h.Out, "❌ %s\n", devErr.Message)
		} else {
			fmt.Fprintf(h.Out, "❌ %v\n", err)
		}

	case errors.ErrCodeEnumerationFailed:
		fmt.Fprintf(h.Out, "❌ Cannot list processes: %v\n", err)

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && devErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", devErr.ToJSON())
	}
	return err
}

func detail(err *errors.DevlogError, key string) interface{} {
	if err == nil || err.Details == nil {
		return "?"
	}
	if v, ok := err.Details[key]; ok {
		return v
	}
	return "?"
}

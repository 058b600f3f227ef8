package logging

import (
	"context"
	"io"
)

type contextKey string

const outputWriterKey contextKey = "devlog_output_writer"

// GetWriter retrieves the pretty output writer from context.
// It falls back to the global console writer.
func GetWriter(ctx context.Context) io.Writer {
	if writer, ok := ctx.Value(outputWriterKey).(io.Writer); ok && writer != nil {
		return writer
	}
	return GetGlobalOutput()
}

// WithWriter returns a new context carrying a pretty output writer.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	return context.WithValue(ctx, outputWriterKey, writer)
}

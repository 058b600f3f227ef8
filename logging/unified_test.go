package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewUnifiedLogger(t *testing.T) {
	t.Setenv("DEVLOG_HOME", t.TempDir())
	defer resetLoggers()

	ulog := NewUnifiedLogger("orchestrator")
	if ulog.Component() != "orchestrator" {
		t.Errorf("expected component 'orchestrator', got '%s'", ulog.Component())
	}
	if ulog.WithPretty() == nil || ulog.WithStructured() == nil {
		t.Error("expected both outputs to be initialized")
	}
}

func TestSemanticMethods(t *testing.T) {
	t.Setenv("DEVLOG_HOME", t.TempDir())
	defer resetLoggers()
	ulog := NewUnifiedLogger("test")

	tests := []struct {
		name           string
		entry          *LogEntry
		expectedIcon   string
		expectedStatus string
	}{
		{"Success", ulog.Success("done"), IconSuccess, "success"},
		{"Status", ulog.Status("watching"), IconInfo, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.entry.icon != tt.expectedIcon {
				t.Errorf("expected icon '%s', got '%s'", tt.expectedIcon, tt.entry.icon)
			}
			if tt.entry.fields["status"] != tt.expectedStatus {
				t.Errorf("expected status '%s', got '%v'", tt.expectedStatus, tt.entry.fields["status"])
			}
			if tt.entry.level != logrus.InfoLevel {
				t.Errorf("expected INFO level, got %v", tt.entry.level)
			}
		})
	}
}

func TestLogPrettyOutput(t *testing.T) {
	t.Setenv("DEVLOG_HOME", t.TempDir())
	defer resetLoggers()

	var buf bytes.Buffer
	ctx := WithWriter(context.Background(), &buf)

	ulog := NewUnifiedLogger("test")
	ulog.Success("watcher started").Log(ctx)
	ulog.Warn("no icon").NoIcon().Log(ctx)
	ulog.Info("structured only").StructuredOnly().Log(ctx)
	ulog.Info("plain").Pretty("custom styled").Log(ctx)

	output := buf.String()
	if !strings.Contains(output, "watcher started") || !strings.Contains(output, IconSuccess) {
		t.Errorf("expected success line with icon, got '%s'", output)
	}
	if strings.Contains(output, IconWarning) {
		t.Errorf("expected no warning icon with NoIcon(), got '%s'", output)
	}
	if strings.Contains(output, "structured only") {
		t.Errorf("expected StructuredOnly() to skip pretty output, got '%s'", output)
	}
	if !strings.Contains(output, "custom styled") {
		t.Errorf("expected custom pretty message, got '%s'", output)
	}
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)
	ctx := context.Background()

	p.Path(ctx, "Logging to", "/tmp/claude_logs")
	p.Field(ctx, "Active sessions", 3)
	p.ErrorPretty(ctx, "watch failed", errors.New("permission denied"))

	output := buf.String()
	for _, want := range []string{"Logging to", "/tmp/claude_logs", "Active sessions", "3", "watch failed: permission denied"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestPrettyLoggerUsesContextWriter(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithWriter(context.Background(), &buf)

	NewPrettyLogger().Success(ctx, "stopped")
	if !strings.Contains(buf.String(), "stopped") {
		t.Errorf("expected context writer to receive output, got '%s'", buf.String())
	}
}

func TestSetGlobalOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetGlobalOutput(&buf)
	defer SetGlobalOutput(prev)

	NewPrettyLogger().Success(context.Background(), "redirected")
	if !strings.Contains(buf.String(), "redirected") {
		t.Errorf("expected redirected output, got '%s'", buf.String())
	}

	SetGlobalOutput(nil)
	NewPrettyLogger().Success(context.Background(), "dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("expected nil writer to discard output, got '%s'", buf.String())
	}
}

package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// WatchConfig controls which directories are watched and which path
// segments are skipped.
type WatchConfig struct {
	SiblingPrefix string   `yaml:"sibling_prefix,omitempty" toml:"sibling_prefix,omitempty" jsonschema:"description=Sibling directories of the projects root whose names start with this prefix are also watched (default: project-)"`
	Ignore        []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" jsonschema:"description=Additional directory or file names to ignore; matched exactly against each path segment"`
}

// DaemonConfig holds the background task intervals and the process
// indicators used by the session scanner.
type DaemonConfig struct {
	ScanInterval         string   `yaml:"scan_interval,omitempty" toml:"scan_interval,omitempty" jsonschema:"description=How often to poll the process table (default: 10s)"`
	HeartbeatInterval    string   `yaml:"heartbeat_interval,omitempty" toml:"heartbeat_interval,omitempty" jsonschema:"description=How often to write a heartbeat line (default: 5s)"`
	ConversationInterval string   `yaml:"conversation_interval,omitempty" toml:"conversation_interval,omitempty" jsonschema:"description=Tick interval of the conversation monitor (default: 30s)"`
	Indicators           []string `yaml:"indicators,omitempty" toml:"indicators,omitempty" jsonschema:"description=Case-insensitive substrings that mark a process as an assistant session (default: claude anthropic claude-code)"`
	StatusAPI            *bool    `yaml:"status_api,omitempty" toml:"status_api,omitempty" jsonschema:"description=Serve session status over a local unix socket (default: true)"`
}

// Config represents the devlog.yml configuration
type Config struct {
	Version  string        `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Projects string        `yaml:"projects,omitempty" toml:"projects,omitempty" jsonschema:"description=Projects root directory to watch (default: current directory)"`
	Logs     string        `yaml:"logs,omitempty" toml:"logs,omitempty" jsonschema:"description=Directory that receives the markdown activity logs (default: ~/claude_logs)"`
	Watch    *WatchConfig  `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Directory watcher settings"`
	Daemon   *DaemonConfig `yaml:"daemon,omitempty" toml:"daemon,omitempty" jsonschema:"description=Background task settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// knownKeys lists the top-level keys decoded into typed fields; everything
// else in a TOML file lands in Extensions.
var knownKeys = map[string]bool{
	"version":  true,
	"projects": true,
	"logs":     true,
	"watch":    true,
	"daemon":   true,
}

// Default intervals and values.
const (
	DefaultScanInterval         = 10 * time.Second
	DefaultHeartbeatInterval    = 5 * time.Second
	DefaultConversationInterval = 30 * time.Second
	DefaultSiblingPrefix        = "project-"
)

// DefaultIndicators are matched case-insensitively against process names and command lines.
var DefaultIndicators = []string{"claude", "anthropic", "claude-code"}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.Watch.SiblingPrefix == "" {
		c.Watch.SiblingPrefix = DefaultSiblingPrefix
	}
	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}
	if c.Daemon.ScanInterval == "" {
		c.Daemon.ScanInterval = DefaultScanInterval.String()
	}
	if c.Daemon.HeartbeatInterval == "" {
		c.Daemon.HeartbeatInterval = DefaultHeartbeatInterval.String()
	}
	if c.Daemon.ConversationInterval == "" {
		c.Daemon.ConversationInterval = DefaultConversationInterval.String()
	}
	if len(c.Daemon.Indicators) == 0 {
		c.Daemon.Indicators = append([]string(nil), DefaultIndicators...)
	}
	if c.Daemon.StatusAPI == nil {
		enabled := true
		c.Daemon.StatusAPI = &enabled
	}
}

// ScanInterval returns the parsed process scan interval, falling back to the default.
func (c *Config) ScanInterval() time.Duration {
	if c.Daemon == nil {
		return DefaultScanInterval
	}
	return parseInterval(c.Daemon.ScanInterval, DefaultScanInterval)
}

// HeartbeatInterval returns the parsed heartbeat interval, falling back to the default.
func (c *Config) HeartbeatInterval() time.Duration {
	if c.Daemon == nil {
		return DefaultHeartbeatInterval
	}
	return parseInterval(c.Daemon.HeartbeatInterval, DefaultHeartbeatInterval)
}

// ConversationInterval returns the parsed conversation monitor interval, falling back to the default.
func (c *Config) ConversationInterval() time.Duration {
	if c.Daemon == nil {
		return DefaultConversationInterval
	}
	return parseInterval(c.Daemon.ConversationInterval, DefaultConversationInterval)
}

// StatusAPIEnabled reports whether the unix socket status API should be served.
func (c *Config) StatusAPIEnabled() bool {
	if c.Daemon == nil || c.Daemon.StatusAPI == nil {
		return true
	}
	return *c.Daemon.StatusAPI
}

func parseInterval(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded devlog.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing key leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

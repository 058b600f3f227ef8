package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/devlog/errors"
)

// Validate checks semantic constraints the JSON schema cannot express.
func (c *Config) Validate() error {
	if c.Daemon != nil {
		intervals := map[string]string{
			"scan_interval":         c.Daemon.ScanInterval,
			"heartbeat_interval":    c.Daemon.HeartbeatInterval,
			"conversation_interval": c.Daemon.ConversationInterval,
		}
		for name, value := range intervals {
			if err := validateInterval(value); err != nil {
				return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid daemon.%s", name)).
					WithDetail("value", value)
			}
		}
		for _, indicator := range c.Daemon.Indicators {
			if strings.TrimSpace(indicator) == "" {
				return errors.New(errors.ErrCodeConfigValidation, "daemon.indicators must not contain empty entries")
			}
		}
	}

	if c.Watch != nil {
		for _, name := range c.Watch.Ignore {
			if name == "" || strings.ContainsAny(name, `/\`) {
				return errors.New(errors.ErrCodeConfigValidation,
					fmt.Sprintf("watch.ignore entry %q must be a single path segment", name)).
					WithDetail("value", name)
			}
		}
	}

	return nil
}

func validateInterval(value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive, got %s", value)
	}
	return nil
}

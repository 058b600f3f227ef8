package orchestrator

import (
	"os"
	"time"

	"github.com/grovetools/devlog/config"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/pkg/paths"
	"github.com/grovetools/devlog/util/pathutil"
)

// Config is the resolved runtime configuration of one devlog run.
type Config struct {
	Projects             string
	LogRoot              string
	SiblingPrefix        string
	Ignore               []string
	Indicators           []string
	ScanInterval         time.Duration
	HeartbeatInterval    time.Duration
	ConversationInterval time.Duration
}

// FromConfig resolves cfg into absolute paths and parsed intervals. An
// empty projects root means the current directory; an empty log root means
// ~/claude_logs.
func FromConfig(cfg *config.Config) (Config, error) {
	projects := cfg.Projects
	if projects == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to get current directory")
		}
		projects = cwd
	}
	projects, err := pathutil.Expand(projects)
	if err != nil {
		return Config{}, errors.InvalidInput("invalid projects path").WithDetail("path", cfg.Projects)
	}

	logRoot := cfg.Logs
	if logRoot == "" {
		logRoot = paths.DefaultLogRoot()
	}
	logRoot, err = pathutil.Expand(logRoot)
	if err != nil {
		return Config{}, errors.InvalidInput("invalid logs path").WithDetail("path", cfg.Logs)
	}

	out := Config{
		Projects:             projects,
		LogRoot:              logRoot,
		SiblingPrefix:        config.DefaultSiblingPrefix,
		Indicators:           config.DefaultIndicators,
		ScanInterval:         cfg.ScanInterval(),
		HeartbeatInterval:    cfg.HeartbeatInterval(),
		ConversationInterval: cfg.ConversationInterval(),
	}
	if cfg.Watch != nil {
		if cfg.Watch.SiblingPrefix != "" {
			out.SiblingPrefix = cfg.Watch.SiblingPrefix
		}
		out.Ignore = cfg.Watch.Ignore
	}
	if cfg.Daemon != nil && len(cfg.Daemon.Indicators) > 0 {
		out.Indicators = cfg.Daemon.Indicators
	}
	return out, nil
}

func (c *Config) applyDefaults() {
	if c.SiblingPrefix == "" {
		c.SiblingPrefix = config.DefaultSiblingPrefix
	}
	if c.ScanInterval <= 0 {
		c.ScanInterval = config.DefaultScanInterval
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = config.DefaultHeartbeatInterval
	}
	if c.ConversationInterval <= 0 {
		c.ConversationInterval = config.DefaultConversationInterval
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/devlog/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, DefaultSiblingPrefix, cfg.Watch.SiblingPrefix)
	assert.Equal(t, DefaultScanInterval, cfg.ScanInterval())
	assert.Equal(t, DefaultHeartbeatInterval, cfg.HeartbeatInterval())
	assert.Equal(t, DefaultConversationInterval, cfg.ConversationInterval())
	assert.Equal(t, DefaultIndicators, cfg.Daemon.Indicators)
	assert.True(t, cfg.StatusAPIEnabled())
}

func TestLoadFromBytesOverrides(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
projects: /srv/work
logs: /var/log/devlog
watch:
  sibling_prefix: app-
  ignore: [target, vendor]
daemon:
  scan_interval: 2s
  indicators: [copilot]
  status_api: false
`))
	require.NoError(t, err)

	assert.Equal(t, "/srv/work", cfg.Projects)
	assert.Equal(t, "/var/log/devlog", cfg.Logs)
	assert.Equal(t, "app-", cfg.Watch.SiblingPrefix)
	assert.Equal(t, []string{"target", "vendor"}, cfg.Watch.Ignore)
	assert.Equal(t, 2*time.Second, cfg.ScanInterval())
	assert.Equal(t, []string{"copilot"}, cfg.Daemon.Indicators)
	assert.False(t, cfg.StatusAPIEnabled())
}

func TestExtensions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
version: "1.0"
logging:
  level: debug
  report_caller: true
`))
	require.NoError(t, err)

	type loggingConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	var logCfg loggingConfig
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	var missing loggingConfig
	require.NoError(t, cfg.UnmarshalExtension("absent", &missing))
	assert.Empty(t, missing.Level)
}

func TestSchemaRejectsUnknownNestedField(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
daemon:
  scan_every: 3s
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestSchemaRejectsWrongType(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
watch:
  ignore: node_modules
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestValidateRejectsBadInterval(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
daemon:
  heartbeat_interval: soon
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestValidateRejectsMultiSegmentIgnore(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
watch:
  ignore: ["a/b"]
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DEVLOG_TEST_ROOT", "/opt/code")

	assert.Equal(t, "projects: /opt/code", expandEnvVars("projects: ${DEVLOG_TEST_ROOT}"))
	assert.Equal(t, "logs: /tmp/fallback", expandEnvVars("logs: ${DEVLOG_TEST_UNSET:-/tmp/fallback}"))
	assert.Equal(t, "logs: ", expandEnvVars("logs: ${DEVLOG_TEST_UNSET}"))
}

func TestLoadFromLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DEVLOG_HOME", home)

	globalDir := filepath.Join(home, "config", "devlog")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "devlog.toml"), []byte(`
logs = "/global/logs"

[daemon]
scan_interval = "20s"
heartbeat_interval = "7s"

[logging]
level = "warn"
`), 0644))

	project := t.TempDir()
	nested := filepath.Join(project, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".devlog.yml"), []byte(`
logs: /project/logs
daemon:
  scan_interval: 3s
`), 0644))

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)

	assert.Equal(t, "/project/logs", cfg.Logs)
	assert.Equal(t, 3*time.Second, cfg.ScanInterval())
	assert.Equal(t, 7*time.Second, cfg.HeartbeatInterval())

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
}

func TestLoadFromWithoutFiles(t *testing.T) {
	t.Setenv("DEVLOG_HOME", t.TempDir())

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, DefaultScanInterval, cfg.ScanInterval())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DEVLOG_PROJECTS", "/env/projects")
	t.Setenv("DEVLOG_LOGS", "")

	cfg := &Config{Logs: "/from/file"}
	cfg.ApplyEnv()
	assert.Equal(t, "/env/projects", cfg.Projects)
	assert.Equal(t, "/from/file", cfg.Logs)
}

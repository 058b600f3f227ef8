// Package paths provides XDG-compliant path resolution for devlog.
//
// Resolution order:
// 1. DEVLOG_HOME (portable root) → $DEVLOG_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/devlog
// 3. Platform defaults → ~/.config/devlog, ~/.local/state/devlog
package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

const appName = "devlog"

// DefaultLogDirName is the directory under the user's home that receives
// activity logs when no --logs flag or config value is given.
const DefaultLogDirName = "claude_logs"

func getConfigHome() string {
	if home := os.Getenv("DEVLOG_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

func getStateHome() string {
	if home := os.Getenv("DEVLOG_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the devlog configuration directory.
// Used for the global devlog.yml / devlog.toml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the devlog state directory.
// Used for the pid file and the fallback socket location.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// RuntimeDir returns the devlog runtime directory for sockets.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if home := os.Getenv("DEVLOG_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// instanceName identifies the instance writing to logRoot. Instances with
// different log roots get different sockets and pid files.
func instanceName(logRoot string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(logRoot)))
	return appName + "-" + hex.EncodeToString(sum[:4])
}

// SocketPath returns the status API unix socket of the instance logging to logRoot.
func SocketPath(logRoot string) string {
	return filepath.Join(RuntimeDir(), instanceName(logRoot)+".sock")
}

// PidFilePath returns the PID file of the instance logging to logRoot.
func PidFilePath(logRoot string) string {
	return filepath.Join(StateDir(), instanceName(logRoot)+".pid")
}

// DefaultLogRoot returns ~/claude_logs, or a relative claude_logs when the
// home directory cannot be determined.
func DefaultLogRoot() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, DefaultLogDirName)
	}
	return DefaultLogDirName
}

// EnsureDirs creates the config, state and runtime directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), RuntimeDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

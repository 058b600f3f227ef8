package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/config"
	"github.com/grovetools/devlog/internal/daemon/orchestrator"
	"github.com/grovetools/devlog/internal/daemon/pidfile"
	"github.com/grovetools/devlog/internal/daemon/server"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/pkg/daemon"
	"github.com/grovetools/devlog/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	configDebounce  = 500 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

func runLogger(cmd *cobra.Command, flags *rootFlags) error {
	opts := cli.GetOptions(cmd)
	logger := logging.NewLogger("devlog")
	if opts.Verbose {
		logging.SetLevel(logrus.DebugLevel)
	}

	runCfg, cfg, cfgPath, err := resolveRunConfig(opts, flags)
	if err != nil {
		return err
	}
	if flags.daemon {
		logger.Warn("--daemon given: devlog does not detach and keeps running in the foreground")
	}

	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	pidPath := paths.PidFilePath(runCfg.LogRoot)
	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.WithError(err).Error("Failed to release pidfile")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o, err := orchestrator.New(runCfg)
	if err != nil {
		return err
	}
	if err := o.Start(ctx); err != nil {
		return err
	}

	var srv *server.Server
	if cfg.StatusAPIEnabled() {
		srv = server.New(logging.NewLogger("server"))
		srv.SetProvider(o)
		srv.SetRunningConfig(&server.RunningConfig{
			ScanInterval:         runCfg.ScanInterval,
			HeartbeatInterval:    runCfg.HeartbeatInterval,
			ConversationInterval: runCfg.ConversationInterval,
			Indicators:           runCfg.Indicators,
			Ignore:               runCfg.Ignore,
			StartedAt:            o.Status().StartedAt,
		})
		go func() {
			if err := srv.ListenAndServe(paths.SocketPath(runCfg.LogRoot)); err != nil {
				logger.WithError(err).Warn("Status API unavailable")
			}
		}()
	}

	cw, err := daemon.NewConfigWatcher(configDirs(cfgPath), configDebounce, func(file string) {
		reloaded, _, _, err := resolveRunConfig(opts, flags)
		if err != nil {
			logger.WithError(err).WithField("file", file).Warn("Ignoring invalid configuration change")
			return
		}
		o.Reload(file, reloaded)
	})
	if err != nil {
		logger.WithError(err).Warn("Configuration changes will not be picked up")
	} else {
		go cw.Start(ctx)
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
		cancel()
	}
	if cw != nil {
		cw.Close()
	}
	return o.Shutdown()
}

// resolveRunConfig applies defaults < files < environment < flags.
func resolveRunConfig(opts cli.CommandOptions, flags *rootFlags) (orchestrator.Config, *config.Config, string, error) {
	cfg, cfgPath, err := cli.LoadConfig(opts)
	if err != nil {
		return orchestrator.Config{}, nil, "", err
	}
	if flags.projects != "" {
		cfg.Projects = flags.projects
	}
	if flags.logs != "" {
		cfg.Logs = flags.logs
	}
	runCfg, err := orchestrator.FromConfig(cfg)
	if err != nil {
		return orchestrator.Config{}, nil, "", err
	}
	return runCfg, cfg, cfgPath, nil
}

func configDirs(cfgPath string) []string {
	dirs := []string{paths.ConfigDir()}
	if cfgPath != "" {
		dirs = append(dirs, filepath.Dir(cfgPath))
	} else if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	return dirs
}

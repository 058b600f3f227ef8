package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/devlog/config"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/journal"
	"github.com/grovetools/devlog/pkg/process"
	"github.com/grovetools/devlog/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu    sync.Mutex
	procs []process.Info
}

func (f *fakeLister) List(context.Context) ([]process.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]process.Info(nil), f.procs...), nil
}

func (f *fakeLister) set(procs ...process.Info) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
}

func testConfig(t *testing.T, projects string) Config {
	t.Helper()
	return Config{
		Projects:             projects,
		LogRoot:              filepath.Join(t.TempDir(), "claude_logs"),
		ScanInterval:         20 * time.Millisecond,
		HeartbeatInterval:    20 * time.Millisecond,
		ConversationInterval: time.Hour,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{LogRoot: "/tmp/logs"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = New(Config{Projects: "/tmp/app"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestStartWatchesRootAndSiblings(t *testing.T) {
	testutil.IsolateHome(t)
	root := testutil.ProjectTree(t, "app", "project-a", "project-b", "other")
	cfg := testConfig(t, root)
	lister := &fakeLister{}
	lister.set(process.Info{PID: 4242, Name: "claude", Cmdline: []string{"claude"}, Cwd: root})

	o, err := New(cfg, WithLister(lister), WithScannerOptions())
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()

	statuses := o.RootStatuses()
	require.Len(t, statuses, 3)
	names := []string{statuses[0].Name, statuses[1].Name, statuses[2].Name}
	assert.ElementsMatch(t, []string{"app", "project-a", "project-b"}, names)
	for _, s := range statuses {
		assert.Equal(t, "watching", s.State)
	}

	sessionLog := readFile(t, o.SessionLogPath())
	assert.True(t, strings.HasPrefix(sessionLog, "# Claude Background Logger Session\n"))
	assert.Contains(t, sessionLog, "**Monitoring:** "+root+"\n")
	assert.Equal(t, 3, strings.Count(sessionLog, "**Added Watcher:**"))
	assert.NotContains(t, sessionLog, filepath.Join(filepath.Dir(root), "other"))

	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "session not detected", func() bool {
		return o.Registry().Has(4242)
	})

	target := filepath.Join(root, "main.py")
	require.NoError(t, os.WriteFile(target, []byte("print('hi')\n"), 0644))
	activityLog := filepath.Join(cfg.LogRoot, "app_activity.md")
	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "change not recorded", func() bool {
		data, err := os.ReadFile(activityLog)
		return err == nil && strings.Contains(string(data), "### CREATED: main.py")
	})

	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "no heartbeat", func() bool {
		return strings.Contains(readFile(t, o.SessionLogPath()), "- Active sessions: 1\n")
	})

	status := o.Status()
	assert.Equal(t, 1, status.TotalSessions)
	assert.Equal(t, cfg.LogRoot, status.LogRoot)
	assert.Len(t, status.Roots, 3)
}

func TestShutdownIsIdempotent(t *testing.T) {
	testutil.IsolateHome(t)
	root := testutil.ProjectTree(t, "app")
	o, err := New(testConfig(t, root), WithLister(&fakeLister{}))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, o.Shutdown())
		}()
	}
	wg.Wait()
	require.NoError(t, o.Shutdown())

	content := readFile(t, o.SessionLogPath())
	assert.Equal(t, 1, strings.Count(content, "**Session Ended:**"))
	assert.Contains(t, content, "**Total Active Sessions:** 0\n")
	for _, s := range o.RootStatuses() {
		assert.Equal(t, "stopped", s.State)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	o, err := New(Config{Projects: t.TempDir(), LogRoot: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, o.Shutdown())
}

func TestStartTwiceFails(t *testing.T) {
	testutil.IsolateHome(t)
	o, err := New(testConfig(t, testutil.ProjectTree(t, "app")), WithLister(&fakeLister{}))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()
	assert.Error(t, o.Start(context.Background()))
}

func TestMissingRootStillWatchesSiblings(t *testing.T) {
	testutil.IsolateHome(t)
	existing := testutil.ProjectTree(t, "app", "project-x")
	missing := filepath.Join(filepath.Dir(existing), "gone")

	o, err := New(testConfig(t, missing), WithLister(&fakeLister{}))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()

	statuses := o.RootStatuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, "project-x", statuses[0].Name)
}

func TestRootMatchingPrefixWatchedOnce(t *testing.T) {
	testutil.IsolateHome(t)
	root := testutil.ProjectTree(t, "project-main", "project-side")
	o, err := New(testConfig(t, root), WithLister(&fakeLister{}))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()

	assert.Len(t, o.RootStatuses(), 2)
}

func TestLogRootCreateFailure(t *testing.T) {
	testutil.IsolateHome(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := testConfig(t, testutil.ProjectTree(t, "app"))
	cfg.LogRoot = filepath.Join(blocker, "logs")
	o, err := New(cfg, WithLister(&fakeLister{}))
	require.NoError(t, err)

	err = o.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLogDirCreate))
	assert.NoError(t, o.Shutdown())
}

func TestRunStopsOnCancel(t *testing.T) {
	testutil.IsolateHome(t)
	o, err := New(testConfig(t, testutil.ProjectTree(t, "app")), WithLister(&fakeLister{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assert.NoError(t, o.Run(ctx))
		close(done)
	}()

	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "never started", func() bool {
		return o.SessionLogPath() != ""
	})
	cancel()
	testutil.WaitWithTimeout(t, done, 5*time.Second, "Run did not return after cancel")
	assert.Contains(t, readFile(t, o.SessionLogPath()), "**Session Ended:**")
}

func TestFromConfig(t *testing.T) {
	home := testutil.IsolateHome(t)
	cfg := &config.Config{Projects: "~/code/app", Logs: "~/logs"}
	cfg.SetDefaults()
	cfg.Watch.Ignore = []string{"vendor"}
	cfg.Daemon.ScanInterval = "2s"

	got, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "code", "app"), got.Projects)
	assert.Equal(t, filepath.Join(home, "logs"), got.LogRoot)
	assert.Equal(t, "project-", got.SiblingPrefix)
	assert.Equal(t, []string{"vendor"}, got.Ignore)
	assert.Equal(t, 2*time.Second, got.ScanInterval)
	assert.Equal(t, config.DefaultHeartbeatInterval, got.HeartbeatInterval)
	assert.Equal(t, config.DefaultIndicators, got.Indicators)
}

func TestFromConfigDefaults(t *testing.T) {
	home := testutil.IsolateHome(t)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := FromConfig(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, cwd, got.Projects)
	assert.Equal(t, filepath.Join(home, "claude_logs"), got.LogRoot)
}

func TestReloadSwapsIndicators(t *testing.T) {
	testutil.IsolateHome(t)
	lister := &fakeLister{}
	lister.set(process.Info{PID: 300, Name: "aider"})
	o, err := New(testConfig(t, testutil.ProjectTree(t, "app")), WithLister(lister))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()

	o.Reload("/etc/devlog.yml", Config{Indicators: []string{"aider"}})
	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "reloaded indicators not applied", func() bool {
		return o.Registry().Has(300)
	})
}

func TestHeartbeatUsesClock(t *testing.T) {
	testutil.IsolateHome(t)
	fixed := time.Date(2024, 3, 9, 14, 30, 0, 0, time.Local)
	o, err := New(testConfig(t, testutil.ProjectTree(t, "app")),
		WithLister(&fakeLister{}),
		WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	defer o.Shutdown()

	want := "**Heartbeat:** " + journal.Stamp(fixed) + " - Active sessions: 0"
	testutil.PollUntil(t, 5*time.Second, 10*time.Millisecond, "no heartbeat with the injected time", func() bool {
		return strings.Contains(readFile(t, o.SessionLogPath()), want)
	})
}

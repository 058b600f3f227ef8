package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/paths"
	"github.com/grovetools/devlog/testutil"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func runSpecgen(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewSpecgenCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestRootFlags(t *testing.T) {
	root := NewRootCmd()
	for name, short := range map[string]string{"projects": "p", "daemon": "d"} {
		f := root.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand)
	}
	for name, short := range map[string]string{"verbose": "v", "json": "", "config": "c", "logs": "l"} {
		f := root.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand)
	}

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"status", "stop", "sessions", "tail", "schema", "version"})
}

func TestSchemaCommand(t *testing.T) {
	testutil.IsolateHome(t)
	out, err := runCmd(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"projects"`)
	assert.Contains(t, out, `"daemon"`)
}

func TestStatusNotRunning(t *testing.T) {
	testutil.IsolateHome(t)
	_, err := runCmd(t, "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotRunning))
}

func TestStopNotRunning(t *testing.T) {
	testutil.IsolateHome(t)
	out, err := runCmd(t, "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "not running")
}

func TestTailWithoutLogs(t *testing.T) {
	testutil.IsolateHome(t)
	_, err := runCmd(t, "tail", "-l", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSpecgenCommand(t *testing.T) {
	testutil.IsolateHome(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(input, []byte("We need to train a ranking model."), 0644))

	out, err := runSpecgen(t, input, "--project", "ranker")
	require.NoError(t, err)
	output := filepath.Join(dir, "chat_spec.md")
	assert.Contains(t, out, "Specification generated: "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# ranker - AI System Specification")
}

func TestSpecgenErrors(t *testing.T) {
	testutil.IsolateHome(t)
	dir := t.TempDir()

	_, err := runSpecgen(t, filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeInputNotFound))

	input := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello"), 0644))
	_, err = runSpecgen(t, input, "--type", "mobile")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = runSpecgen(t)
	assert.Error(t, err)
}

func TestRunLoggerEndToEnd(t *testing.T) {
	testutil.IsolateHome(t)
	projects := testutil.ProjectTree(t, "webapp", "project-api")
	logs := filepath.Join(t.TempDir(), "logs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		root := NewRootCmd()
		root.SetArgs([]string{"-p", projects, "-l", logs})
		root.SetOut(&bytes.Buffer{})
		done <- root.ExecuteContext(ctx)
	}()

	testutil.PollUntil(t, 10*time.Second, 50*time.Millisecond, "status API never came up", func() bool {
		_, err := os.Stat(paths.SocketPath(logs))
		return err == nil
	})

	out, err := runCmd(t, "status", "--json", "-l", logs)
	require.NoError(t, err)
	var status models.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, os.Getpid(), status.PID)
	assert.Equal(t, logs, status.LogRoot)
	assert.Len(t, status.Roots, 2)

	require.NoError(t, os.WriteFile(filepath.Join(projects, "app.py"), []byte("print('hi')\n"), 0644))
	testutil.PollUntil(t, 10*time.Second, 50*time.Millisecond, "change never logged", func() bool {
		data, err := os.ReadFile(filepath.Join(logs, "webapp_activity.md"))
		return err == nil && bytes.Contains(data, []byte("app.py"))
	})

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("devlog did not stop after cancel")
	}
	assert.NoFileExists(t, paths.PidFilePath(logs))
}

func TestInstancesWithDifferentLogRoots(t *testing.T) {
	testutil.IsolateHome(t)
	projects := testutil.ProjectTree(t, "webapp")
	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 2)
	for _, logs := range []string{first, second} {
		go func(logs string) {
			root := NewRootCmd()
			root.SetArgs([]string{"-p", projects, "-l", logs})
			root.SetOut(&bytes.Buffer{})
			done <- root.ExecuteContext(ctx)
		}(logs)
	}

	for _, logs := range []string{first, second} {
		testutil.PollUntil(t, 10*time.Second, 50*time.Millisecond, "status API never came up for "+logs, func() bool {
			_, err := os.Stat(paths.SocketPath(logs))
			return err == nil
		})
		assert.FileExists(t, paths.PidFilePath(logs))

		out, err := runCmd(t, "status", "--json", "-l", logs)
		require.NoError(t, err)
		var status models.Status
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		assert.Equal(t, logs, status.LogRoot)
	}

	cancel()
	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("devlog did not stop after cancel")
		}
	}
	assert.NoFileExists(t, paths.PidFilePath(first))
	assert.NoFileExists(t, paths.PidFilePath(second))
}

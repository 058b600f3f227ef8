// Package testutil holds helpers shared by package tests.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// PollUntil polls fn with the given interval until it returns true
// or the timeout expires.
func PollUntil(t *testing.T, timeout, interval time.Duration, msg string, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(interval)
	}
	if fn() {
		return
	}
	t.Fatal(msg)
}

// WaitWithTimeout waits for ch to be closed or receive, failing the test after timeout.
func WaitWithTimeout(t *testing.T, ch <-chan struct{}, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatal(msg)
	}
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// WriteFiles creates files under root from a map of relative path to content.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// ProjectTree creates a workspace directory holding a projects root named
// name plus the given sibling directories, and returns the root path.
func ProjectTree(t *testing.T, name string, siblings ...string) string {
	t.Helper()
	workspace := t.TempDir()
	root := filepath.Join(workspace, name)
	require.NoError(t, os.MkdirAll(root, 0755))
	for _, s := range siblings {
		require.NoError(t, os.MkdirAll(filepath.Join(workspace, s), 0755))
	}
	return root
}

// IsolateHome points HOME and DEVLOG_HOME at fresh temp dirs so tests never
// touch the real user config or state.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEVLOG_HOME", filepath.Join(home, ".devlog"))
	return home
}

package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/grovetools/devlog/pkg/models"
)

// socketHost is the placeholder host of requests sent over the unix socket.
const socketHost = "http://devlog"

const (
	requestTimeout = 10 * time.Second
	healthTimeout  = 2 * time.Second
	maxEventSize   = 4 * 1024 * 1024
)

// RemoteClient talks to a running devlog instance over its unix socket.
type RemoteClient struct {
	socketPath string
	transport  *http.Transport
	http       *http.Client
}

// NewRemoteClient returns a client for the status API served at socketPath.
// No connection is made until the first call.
func NewRemoteClient(socketPath string) (*RemoteClient, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("empty socket path")
	}
	transport := unixTransport(socketPath)
	return &RemoteClient{
		socketPath: socketPath,
		transport:  transport,
		http:       &http.Client{Transport: transport, Timeout: requestTimeout},
	}, nil
}

func unixTransport(socketPath string) *http.Transport {
	return &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:    4,
		IdleConnTimeout: 30 * time.Second,
	}
}

func (c *RemoteClient) get(ctx context.Context, client *http.Client, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, socketHost+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach devlog at %s: %w", c.socketPath, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}

func (c *RemoteClient) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.get(ctx, c.http, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", path, err)
	}
	return nil
}

// GetStatus returns the run summary.
func (c *RemoteClient) GetStatus(ctx context.Context) (*models.Status, error) {
	var status models.Status
	if err := c.getJSON(ctx, "/api/state", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetSessions returns every session the instance has tracked.
func (c *RemoteClient) GetSessions(ctx context.Context) ([]*models.Session, error) {
	var sessions []*models.Session
	if err := c.getJSON(ctx, "/api/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetRoots returns the watched directories.
func (c *RemoteClient) GetRoots(ctx context.Context) ([]models.RootStatus, error) {
	var roots []models.RootStatus
	if err := c.getJSON(ctx, "/api/roots", &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// IsRunning reports whether /health answers within two seconds.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	resp, err := c.get(ctx, c.http, "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// StreamState follows /api/stream. The returned channel is closed when ctx
// is cancelled or the instance goes away.
func (c *RemoteClient) StreamState(ctx context.Context) (<-chan StateUpdate, error) {
	transport := unixTransport(c.socketPath)
	resp, err := c.get(ctx, &http.Client{Transport: transport}, "/api/stream")
	if err != nil {
		transport.CloseIdleConnections()
		return nil, err
	}

	ch := make(chan StateUpdate, 10)
	go func() {
		defer close(ch)
		defer transport.CloseIdleConnections()
		defer resp.Body.Close()
		readEvents(ctx, resp.Body, ch)
	}()
	return ch, nil
}

// readEvents decodes "data: {json}" server-sent events from r into ch.
// Comment lines and malformed payloads are skipped.
func readEvents(ctx context.Context, r io.Reader, ch chan<- StateUpdate) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var update StateUpdate
		if err := json.Unmarshal([]byte(data), &update); err != nil {
			continue
		}
		select {
		case ch <- update:
		case <-ctx.Done():
			return
		}
	}
}

// Close releases idle connections.
func (c *RemoteClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

var _ Client = (*RemoteClient)(nil)

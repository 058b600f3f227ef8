package daemon

import (
	"net"
	"os"
	"time"

	"github.com/grovetools/devlog/pkg/paths"
)

// New returns a Client for the instance logging to logRoot if it is running,
// otherwise falls back to LocalClient.
func New(logRoot string) Client {
	return NewForSocket(paths.SocketPath(logRoot))
}

// NewForSocket is New with an explicit socket path.
func NewForSocket(socketPath string) Client {
	if _, err := os.Stat(socketPath); err == nil {
		// Socket file exists, try to connect
		conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			if client, err := NewRemoteClient(socketPath); err == nil {
				return client
			}
		}
	}

	// Fallback: daemon not running, use local client
	return NewLocalClient()
}

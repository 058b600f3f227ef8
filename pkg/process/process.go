// Package process wraps process table access: liveness checks for the pid
// file and enumeration for the session scanner.
package process

import (
	"errors"
	"syscall"
)

// IsProcessAlive reports whether pid names a live process. A process owned
// by another user counts as alive.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

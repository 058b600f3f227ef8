package process

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProcessAlive(t *testing.T) {
	assert.True(t, IsProcessAlive(os.Getpid()))
	assert.False(t, IsProcessAlive(0))
	assert.False(t, IsProcessAlive(-1))
}

func TestSystemListerIncludesSelf(t *testing.T) {
	infos, err := NewSystemLister().List(context.Background())
	require.NoError(t, err)

	var found bool
	for _, info := range infos {
		if info.PID == os.Getpid() {
			found = true
			assert.NotEmpty(t, info.Name)
		}
	}
	assert.True(t, found, "current process should be listed")
}

func TestSystemListerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSystemLister().List(ctx)
	assert.Error(t, err)
}

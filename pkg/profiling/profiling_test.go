package profiling

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderNesting(t *testing.T) {
	r := &Recorder{}
	r.Start("ignored").Stop()

	r.Enable()
	outer := r.Start("generate")
	r.Start("analyze").Stop()
	r.Start("render").Stop()
	outer.Stop()
	r.Start("after").Stop()

	var buf bytes.Buffer
	r.Summarize(&buf)
	out := buf.String()

	assert.NotContains(t, out, "ignored")
	assert.Contains(t, out, "- generate")
	assert.Contains(t, out, "  - analyze")
	assert.Contains(t, out, "  - render")
	assert.Contains(t, out, "\n- after")
}

func TestDisabledSummaryIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&Recorder{}).Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestAttachWritesHeapProfile(t *testing.T) {
	mem := filepath.Join(t.TempDir(), "heap.out")
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	Attach(cmd)
	cmd.SetArgs([]string{"--mem-profile", mem})

	require.NoError(t, cmd.Execute())
	info, err := os.Stat(mem)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

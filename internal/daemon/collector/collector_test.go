package collector

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/devlog/internal/daemon/scanner"
	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/process"
	"github.com/grovetools/devlog/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type beatRecorder struct {
	mu    sync.Mutex
	beats []int
	times []time.Time
}

func (b *beatRecorder) Heartbeat(at time.Time, sessions int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beats = append(b.beats, sessions)
	b.times = append(b.times, at)
	return nil
}

func (b *beatRecorder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.beats)
}

func (b *beatRecorder) last() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beats[len(b.beats)-1]
}

// drain applies updates the way the engine does.
func drain(ctx context.Context, reg *store.Registry, updates <-chan store.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			reg.ApplyUpdate(u)
		}
	}
}

func TestHeartbeatCollector(t *testing.T) {
	reg := store.New()
	reg.Add(&models.Session{PID: 10})
	reg.Add(&models.Session{PID: 11})

	rec := &beatRecorder{}
	roots := func() []models.RootStatus {
		return []models.RootStatus{{Name: "app", State: "watching"}}
	}
	c := NewHeartbeatCollector(rec, roots, 10*time.Millisecond, quietLogger())
	assert.Equal(t, "heartbeat", c.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan store.Update, 10)
	go drain(ctx, reg, updates)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, c.Run(ctx, reg, updates))
		close(done)
	}()

	testutil.PollUntil(t, 2*time.Second, 5*time.Millisecond, "no heartbeat written", func() bool {
		return rec.count() >= 2
	})
	assert.Equal(t, 2, rec.last())
	testutil.PollUntil(t, 2*time.Second, 5*time.Millisecond, "roots never published", func() bool {
		return len(reg.Roots()) == 1
	})

	cancel()
	testutil.WaitWithTimeout(t, done, time.Second, "heartbeat did not stop")
}

func TestHeartbeatCollectorClock(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	rec := &beatRecorder{}
	c := NewHeartbeatCollector(rec, nil, 10*time.Millisecond, quietLogger()).
		WithClock(func() time.Time { return fixed })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg := store.New()
	updates := make(chan store.Update, 10)
	go drain(ctx, reg, updates)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, c.Run(ctx, reg, updates))
		close(done)
	}()
	testutil.PollUntil(t, 2*time.Second, 5*time.Millisecond, "no heartbeat written", func() bool {
		return rec.count() >= 1
	})
	cancel()
	testutil.WaitWithTimeout(t, done, time.Second, "heartbeat did not stop")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, at := range rec.times {
		assert.True(t, at.Equal(fixed), "heartbeat stamped %v", at)
	}
}

type staticLister struct{ procs []process.Info }

func (l staticLister) List(context.Context) ([]process.Info, error) { return l.procs, nil }

func TestScanCollectorScansImmediately(t *testing.T) {
	reg := store.New()
	sc := scanner.New(
		staticLister{procs: []process.Info{{PID: 500, Name: "claude"}}},
		reg,
		scanner.JournalOpener{Root: t.TempDir()},
		scanner.WithSelfPID(1),
		scanner.WithLogger(quietLogger()),
	)
	c := NewScanCollector(sc, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assert.NoError(t, c.Run(ctx, reg, make(chan store.Update, 1)))
		close(done)
	}()

	testutil.PollUntil(t, 2*time.Second, 5*time.Millisecond, "session not registered", func() bool {
		return reg.Has(500)
	})
	cancel()
	testutil.WaitWithTimeout(t, done, time.Second, "scanner did not stop on cancel")
}

func TestConversationCollectorStops(t *testing.T) {
	c := NewConversationCollector(time.Hour, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assert.NoError(t, c.Run(ctx, store.New(), nil))
		close(done)
	}()
	cancel()
	testutil.WaitWithTimeout(t, done, time.Second, "conversation monitor did not stop")
}

package logviewer

import (
	"io"
	stdlog "log"
	"sort"
	"sync"

	"github.com/hpcloud/tail"
)

// LogLineMsg is one line read from a followed log.
type LogLineMsg struct {
	Source string
	Line   string
}

// Tailer follows a set of files and merges their lines onto one channel.
type Tailer struct {
	tails []*tail.Tail
	lines chan LogLineMsg
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewTailer starts following files, keyed by source label. With fromStart
// the existing contents are replayed; otherwise only new lines are read.
func NewTailer(files map[string]string, fromStart bool) (*Tailer, error) {
	t := &Tailer{
		lines: make(chan LogLineMsg, 100),
		done:  make(chan struct{}),
	}

	whence := io.SeekEnd
	if fromStart {
		whence = io.SeekStart
	}

	sources := make([]string, 0, len(files))
	for source := range files {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		tl, err := tail.TailFile(files[source], tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: whence},
			Logger:   stdlog.New(io.Discard, "", 0),
		})
		if err != nil {
			t.Stop()
			return nil, err
		}
		t.tails = append(t.tails, tl)

		t.wg.Add(1)
		go t.forward(source, tl)
	}

	go func() {
		t.wg.Wait()
		close(t.lines)
	}()
	return t, nil
}

func (t *Tailer) forward(source string, tl *tail.Tail) {
	defer t.wg.Done()
	// tl.Lines must be drained until closed or tl.Stop blocks.
	for line := range tl.Lines {
		if line.Err != nil {
			continue
		}
		select {
		case t.lines <- LogLineMsg{Source: source, Line: line.Text}:
		case <-t.done:
		}
	}
}

// Lines is closed after Stop once every follower has exited.
func (t *Tailer) Lines() <-chan LogLineMsg {
	return t.lines
}

// Stop ends every follower. Safe to call more than once.
func (t *Tailer) Stop() {
	t.once.Do(func() {
		close(t.done)
		for _, tl := range t.tails {
			tl.Stop()
			tl.Cleanup()
		}
	})
}

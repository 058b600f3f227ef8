package process

import (
	"context"
	"time"

	psprocess "github.com/shirou/gopsutil/v4/process"
)

// Info is a snapshot of one entry in the process table.
type Info struct {
	PID       int
	Name      string
	Cmdline   []string
	Cwd       string
	StartedAt time.Time
}

// Lister enumerates the processes visible to the current user.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

// SystemLister reads the live process table through gopsutil.
type SystemLister struct{}

// NewSystemLister returns a Lister backed by the operating system.
func NewSystemLister() *SystemLister {
	return &SystemLister{}
}

// List returns every PID in the table. Details that cannot be read, because
// the process exited mid-enumeration or denies access, are left empty; only
// a failure to read the table itself is returned.
func (l *SystemLister) List(ctx context.Context) ([]Info, error) {
	procs, err := psprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return infos, ctx.Err()
		}

		// A PID with unreadable details still counts as present.
		info := Info{PID: int(p.Pid)}
		if name, err := p.NameWithContext(ctx); err == nil {
			info.Name = name
		}
		if cmdline, err := p.CmdlineSliceWithContext(ctx); err == nil {
			info.Cmdline = cmdline
		}
		if cwd, err := p.CwdWithContext(ctx); err == nil {
			info.Cwd = cwd
		}
		if created, err := p.CreateTimeWithContext(ctx); err == nil && created > 0 {
			info.StartedAt = time.UnixMilli(created)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

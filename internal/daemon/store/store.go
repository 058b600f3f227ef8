package store

import (
	"sort"
	"sync"
	"time"

	"github.com/grovetools/devlog/pkg/models"
)

// Registry maps process ids to tracked sessions. Entries are created once
// per PID and are never removed during a run; exited processes are only
// marked. It is safe for concurrent use and supports pub/sub for
// real-time updates.
type Registry struct {
	mu            sync.RWMutex
	sessions      map[int]*models.Session
	roots         []models.RootStatus
	lastHeartbeat time.Time
	subscribers   map[chan Update]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		sessions:    make(map[int]*models.Session),
		subscribers: make(map[chan Update]struct{}),
	}
}

// Add registers s under its PID. It returns false, leaving the registry
// untouched, when the PID is already tracked.
func (r *Registry) Add(s *models.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.PID]; ok {
		return false
	}
	stored := s.Clone()
	r.sessions[s.PID] = stored
	r.broadcastLocked(Update{
		Type:    UpdateSessionAdded,
		Source:  "scanner",
		Time:    stored.StartTime,
		Payload: stored.Clone(),
	})
	return true
}

// Has reports whether pid is tracked.
func (r *Registry) Has(pid int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[pid]
	return ok
}

// Get returns a copy of the session for pid.
func (r *Registry) Get(pid int) (*models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[pid]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// List returns copies of all sessions ordered by PID.
func (r *Registry) List() []*models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PID < result[j].PID })
	return result
}

// Count returns the number of sessions observed so far, ended or not.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ActiveCount returns the number of sessions not yet marked ended.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if s.Active() {
			n++
		}
	}
	return n
}

// ActivePIDs returns the PIDs of sessions not yet marked ended, in ascending order.
func (r *Registry) ActivePIDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pids := make([]int, 0, len(r.sessions))
	for pid, s := range r.sessions {
		if s.Active() {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	return pids
}

// MarkEnded sets EndedAt on the session for pid. It returns the updated
// copy and true only the first time it succeeds for a tracked PID.
func (r *Registry) MarkEnded(pid int, at time.Time) (*models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pid]
	if !ok || !s.Active() {
		return nil, false
	}
	ended := at
	s.EndedAt = &ended
	r.broadcastLocked(Update{
		Type:    UpdateSessionEnded,
		Source:  "scanner",
		Time:    at,
		Payload: s.Clone(),
	})
	return s.Clone(), true
}

// Roots returns the last published status of the watched roots.
func (r *Registry) Roots() []models.RootStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.RootStatus(nil), r.roots...)
}

// LastHeartbeat returns the time of the most recent heartbeat.
func (r *Registry) LastHeartbeat() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastHeartbeat
}

// State returns a copy of the current state.
func (r *Registry) State() State {
	return State{
		Sessions:      r.List(),
		Roots:         r.Roots(),
		LastHeartbeat: r.LastHeartbeat(),
	}
}

// ApplyUpdate modifies the state and notifies subscribers. Session updates
// are produced by Add and MarkEnded and are only rebroadcast here.
func (r *Registry) ApplyUpdate(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch u.Type {
	case UpdateRoots:
		if roots, ok := u.Payload.([]models.RootStatus); ok {
			r.roots = append([]models.RootStatus(nil), roots...)
		}
	case UpdateHeartbeat:
		r.lastHeartbeat = u.Time
	}

	r.broadcastLocked(u)
}

// Subscribe creates a new subscription channel for state updates.
func (r *Registry) Subscribe() chan Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Update, 100) // Buffered
	r.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (r *Registry) Unsubscribe(ch chan Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[ch]; !ok {
		return
	}
	delete(r.subscribers, ch)
	close(ch)
}

func (r *Registry) broadcastLocked(u Update) {
	for ch := range r.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send to prevent slow clients from stalling the daemon
		}
	}
}

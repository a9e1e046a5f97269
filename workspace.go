package vizitka

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/vizitka/card"
	"github.com/eringen/vizitka/slogan"
)

// ErrTooManyWorkspaces is returned by Create when the registry is full.
var ErrTooManyWorkspaces = errors.New("vizitka: too many open workspaces")

// Workspace is the state one browser session edits: the card and the
// transient slogan shown on its front.
type Workspace struct {
	ID     string
	Card   *card.Store
	Slogan *slogan.State

	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Workspaces is the in-memory registry of session workspaces. Nothing is
// written to disk; a workspace idle for longer than ttl is dropped.
type Workspaces struct {
	mu     sync.RWMutex
	items  map[string]*Workspace
	ttl    time.Duration
	limit  int
	policy slogan.Policy
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewWorkspaces creates a registry holding at most limit workspaces (zero
// means no cap) and starts its eviction loop.
func NewWorkspaces(ttl time.Duration, limit int, policy slogan.Policy) *Workspaces {
	w := &Workspaces{
		items:  make(map[string]*Workspace),
		ttl:    ttl,
		limit:  limit,
		policy: policy,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go w.cleanup()
	return w
}

// Create opens a fresh workspace seeded with the default card. A full
// registry drops idle workspaces first and fails with ErrTooManyWorkspaces
// if none were idle.
func (w *Workspaces) Create() (*Workspace, error) {
	ws := &Workspace{
		ID:       uuid.NewString(),
		Card:     card.NewStore(card.Default()),
		Slogan:   slogan.NewState(w.policy),
		lastSeen: w.now(),
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.limit > 0 && len(w.items) >= w.limit {
		w.evictLocked()
		if len(w.items) >= w.limit {
			return nil, ErrTooManyWorkspaces
		}
	}
	w.items[ws.ID] = ws
	return ws, nil
}

// Get returns the workspace for id and marks it as used.
func (w *Workspaces) Get(id string) (*Workspace, bool) {
	w.mu.RLock()
	ws, ok := w.items[id]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}
	ws.touch(w.now())
	return ws, true
}

// Len returns the number of live workspaces.
func (w *Workspaces) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.items)
}

// Evict drops every workspace idle for longer than the ttl and returns how
// many were removed.
func (w *Workspaces) Evict() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.evictLocked()
}

func (w *Workspaces) evictLocked() int {
	cutoff := w.now().Add(-w.ttl)
	n := 0
	for id, ws := range w.items {
		if ws.idleSince().Before(cutoff) {
			delete(w.items, id)
			n++
		}
	}
	return n
}

func (w *Workspaces) cleanup() {
	interval := w.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Evict()
		case <-w.stop:
			return
		}
	}
}

// Close stops the eviction loop.
func (w *Workspaces) Close() {
	w.once.Do(func() { close(w.stop) })
}

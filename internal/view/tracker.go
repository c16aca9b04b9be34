package view

import (
	"context"
	"sync"
)

// Tracker keeps at most one in-flight list load per key. Starting a new load
// cancels the one it supersedes.
type Tracker struct {
	mu    sync.Mutex
	loads map[string]*Load
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{loads: make(map[string]*Load)}
}

// Key scopes a load to one browser session and one page.
func Key(sessionID, page string) string {
	return sessionID + "|" + page
}

// Load is one tracked fetch.
type Load struct {
	tracker *Tracker
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
}

// Begin starts a load for key and cancels the previous one.
func (t *Tracker) Begin(ctx context.Context, key string) *Load {
	loadCtx, cancel := context.WithCancel(ctx)
	l := &Load{tracker: t, key: key, ctx: loadCtx, cancel: cancel}

	t.mu.Lock()
	prev := t.loads[key]
	t.loads[key] = l
	t.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	return l
}

// Context is canceled when the load is superseded or finished.
func (l *Load) Context() context.Context {
	return l.ctx
}

// Current reports whether no newer load has started for the same key.
func (l *Load) Current() bool {
	l.tracker.mu.Lock()
	defer l.tracker.mu.Unlock()
	return l.tracker.loads[l.key] == l
}

// Commit runs apply only while the load is still current. It reports whether apply ran.
func (l *Load) Commit(apply func()) bool {
	l.tracker.mu.Lock()
	defer l.tracker.mu.Unlock()
	if l.tracker.loads[l.key] != l {
		return false
	}
	apply()
	return true
}

// Finish releases the load.
func (l *Load) Finish() {
	l.tracker.mu.Lock()
	if l.tracker.loads[l.key] == l {
		delete(l.tracker.loads, l.key)
	}
	l.tracker.mu.Unlock()
	l.cancel()
}

// Pending returns the number of loads in flight.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.loads)
}

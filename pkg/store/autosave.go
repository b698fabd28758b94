package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"tableflip.dev/goals/pkg/state"
)

// Autosaver writes committed snapshots in the background. Bursts of commits
// within delay collapse into a single write of the latest snapshot. Callers
// never wait on a write except through Flush and Close.
type Autosaver struct {
	p       Persistence
	delay   time.Duration
	onError func(error)

	mu      sync.Mutex
	pending *state.Snapshot
	timer   *time.Timer
	closed  bool

	writeMu sync.Mutex
}

// NewAutosaver returns an Autosaver writing to p. A nil onError reports
// failures on stderr.
func NewAutosaver(p Persistence, delay time.Duration, onError func(error)) *Autosaver {
	if onError == nil {
		onError = func(err error) {
			fmt.Fprintf(os.Stderr, "store: autosave: %v\n", err)
		}
	}
	return &Autosaver{p: p, delay: delay, onError: onError}
}

// Hook adapts the Autosaver to a state commit hook.
func (a *Autosaver) Hook() state.Hook {
	return a.Schedule
}

// Schedule queues snap for writing. Committed snapshots are never modified,
// so snap is held as-is.
func (a *Autosaver) Schedule(snap *state.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = snap
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, func() {
			if err := a.Flush(); err != nil {
				a.onError(err)
			}
		})
	}
}

// Flush writes the pending snapshot, if any, now.
func (a *Autosaver) Flush() error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if snap == nil {
		return nil
	}
	return a.p.Save(snap)
}

// Close flushes and stops accepting snapshots. It returns the error of the
// final write, if it failed.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	if err := a.Flush(); err != nil {
		return fmt.Errorf("store: final save: %w", err)
	}
	return nil
}

// Package trigger delivers host-fired interactions to the sessions rendering
// a document. The trigger lives in one shared field; consumers poll it and
// play each timestamp at most once.
package trigger

import (
	"sync"

	"invitation-canvas-editor/internal/scene"
)

// Tracker remembers the newest trigger timestamp a session has played.
type Tracker struct {
	mu       sync.Mutex
	lastSeen int64
	primed   bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Prime marks t as already seen without playing it. A nil t primes at zero.
func (tr *Tracker) Prime(t *scene.Trigger) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.primed = true
	if t != nil && t.Timestamp > tr.lastSeen {
		tr.lastSeen = t.Timestamp
	}
}

func (tr *Tracker) Primed() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.primed
}

// Observe reports whether t should play, and records it as seen when it should.
// Timestamps at or below the last seen one never play again.
func (tr *Tracker) Observe(t *scene.Trigger) bool {
	if t == nil {
		return false
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.primed = true
	if t.Timestamp <= tr.lastSeen {
		return false
	}
	tr.lastSeen = t.Timestamp
	return true
}

func (tr *Tracker) LastSeen() int64 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.lastSeen
}

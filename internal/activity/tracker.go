// Package activity holds the process-wide last-activity record and the
// recorder that fans observed events out to the journal and event stream.
package activity

import (
	"sync"
	"time"

	"github.com/starford/vigil/internal/models"
)

// Tracker is the process-wide last-activity record. Every observed event
// overwrites the record unconditionally; there is no ordering check, so the
// stamp only regresses if a source delivers an older one.
type Tracker struct {
	mu       sync.RWMutex
	rec      models.Record
	observed bool
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe overwrites the record with the given notebook path and
// observation time.
func (t *Tracker) Observe(path string, at time.Time) {
	t.mu.Lock()
	t.rec = models.Record{Path: path, ObservedAt: at}
	t.observed = true
	t.mu.Unlock()
}

// Last returns the current record. The boolean is false until the first
// observation.
func (t *Tracker) Last() (models.Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rec, t.observed
}

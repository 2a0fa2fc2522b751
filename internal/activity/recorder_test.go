package activity

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starford/vigil/internal/models"
)

type fakeJournal struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (f *fakeJournal) Append(ev models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (f *fakePublisher) PublishActivity(ev models.Event) {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
}

func TestRecorder_ObserveFansOut(t *testing.T) {
	tr := NewTracker()
	j := &fakeJournal{}
	p := &fakePublisher{}
	rec := NewRecorder(tr, j, p, nil)

	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	rec.Observe(models.SourceHook, "demo.ipynb", at)

	got, ok := tr.Last()
	if !ok || got.Path != "demo.ipynb" {
		t.Fatalf("tracker not updated: %+v ok=%v", got, ok)
	}

	if len(j.events) != 1 {
		t.Fatalf("journal events = %d, want 1", len(j.events))
	}
	ev := j.events[0]
	if ev.Source != models.SourceHook || ev.Path != "demo.ipynb" || !ev.ObservedAt.Equal(at) {
		t.Errorf("journal event = %+v", ev)
	}
	if ev.RecordedAt.IsZero() {
		t.Error("recorded_at not set")
	}

	if len(p.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(p.events))
	}
}

func TestRecorder_JournalFailureDoesNotBlockTracking(t *testing.T) {
	tr := NewTracker()
	j := &fakeJournal{err: errors.New("disk full")}
	p := &fakePublisher{}
	rec := NewRecorder(tr, j, p, nil)

	rec.Observe(models.SourcePoll, "demo.ipynb", time.Now())

	if _, ok := tr.Last(); !ok {
		t.Error("tracker should be updated even when the journal fails")
	}
	if len(p.events) != 1 {
		t.Errorf("published events = %d, want 1", len(p.events))
	}
}

func TestRecorder_NilSidecarsAreOptional(t *testing.T) {
	tr := NewTracker()
	rec := NewRecorder(tr, nil, nil, nil)

	rec.Observe(models.SourceWatch, "demo.ipynb", time.Now())

	if _, ok := tr.Last(); !ok {
		t.Error("tracker not updated with nil journal and publisher")
	}
}

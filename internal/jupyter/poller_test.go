package jupyter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starford/vigil/internal/models"
)

type fakeLister struct {
	sessions []Session
	err      error
}

func (f *fakeLister) Sessions(context.Context) ([]Session, error) {
	return f.sessions, f.err
}

type observation struct {
	source string
	path   string
	at     time.Time
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeRecorder) Observe(source, path string, at time.Time) {
	f.mu.Lock()
	f.obs = append(f.obs, observation{source, path, at})
	f.mu.Unlock()
}

func TestPoll_BusyKernelObservedNow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{sessions: []Session{
		{Path: "train.ipynb", Type: "notebook", Kernel: Kernel{
			ExecutionState: "busy",
			LastActivity:   now.Add(-time.Hour),
		}},
	}}
	rec := &fakeRecorder{}
	p := NewPoller(lister, rec, nil, time.Second)
	p.now = func() time.Time { return now }

	p.poll(context.Background())

	if len(rec.obs) != 1 {
		t.Fatalf("observations = %d, want 1", len(rec.obs))
	}
	o := rec.obs[0]
	if o.source != models.SourcePoll || o.path != "train.ipynb" {
		t.Errorf("observation = %+v", o)
	}
	if !o.at.Equal(now) {
		t.Errorf("busy kernel observed at %v, want now %v", o.at, now)
	}
}

func TestPoll_IdleKernelObservedAtLastActivity(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-40 * time.Second)
	lister := &fakeLister{sessions: []Session{
		{Path: "eda.ipynb", Type: "notebook", Kernel: Kernel{
			ExecutionState: "idle",
			LastActivity:   last,
		}},
	}}
	rec := &fakeRecorder{}
	p := NewPoller(lister, rec, nil, time.Second)
	p.now = func() time.Time { return now }

	p.poll(context.Background())

	if len(rec.obs) != 1 {
		t.Fatalf("observations = %d, want 1", len(rec.obs))
	}
	if !rec.obs[0].at.Equal(last) {
		t.Errorf("idle kernel observed at %v, want %v", rec.obs[0].at, last)
	}
}

func TestPoll_PicksLatestAcrossSessions(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{sessions: []Session{
		{Path: "old.ipynb", Type: "notebook", Kernel: Kernel{
			ExecutionState: "idle", LastActivity: now.Add(-10 * time.Minute)}},
		{Path: "fresh.ipynb", Type: "notebook", Kernel: Kernel{
			ExecutionState: "idle", LastActivity: now.Add(-10 * time.Second)}},
		{Path: "mid.ipynb", Type: "notebook", Kernel: Kernel{
			ExecutionState: "idle", LastActivity: now.Add(-time.Minute)}},
	}}
	rec := &fakeRecorder{}
	p := NewPoller(lister, rec, nil, time.Second)
	p.now = func() time.Time { return now }

	p.poll(context.Background())

	if len(rec.obs) != 1 {
		t.Fatalf("observations = %d, want exactly 1 per poll", len(rec.obs))
	}
	if rec.obs[0].path != "fresh.ipynb" {
		t.Errorf("path = %q, want fresh.ipynb", rec.obs[0].path)
	}
}

func TestPoll_IgnoresNonNotebookSessions(t *testing.T) {
	now := time.Now().UTC()
	lister := &fakeLister{sessions: []Session{
		{Path: "term/1", Type: "terminal", Kernel: Kernel{
			ExecutionState: "busy", LastActivity: now}},
		{Path: "console/1", Type: "console", Kernel: Kernel{
			ExecutionState: "busy", LastActivity: now}},
	}}
	rec := &fakeRecorder{}
	p := NewPoller(lister, rec, nil, time.Second)

	p.poll(context.Background())

	if len(rec.obs) != 0 {
		t.Errorf("observations = %d, want 0 for non-notebook sessions", len(rec.obs))
	}
}

func TestPoll_EmptyAndFailedFetchObserveNothing(t *testing.T) {
	rec := &fakeRecorder{}

	p := NewPoller(&fakeLister{}, rec, nil, time.Second)
	p.poll(context.Background())

	p = NewPoller(&fakeLister{err: errors.New("connection refused")}, rec, nil, time.Second)
	p.poll(context.Background())

	if len(rec.obs) != 0 {
		t.Errorf("observations = %d, want 0", len(rec.obs))
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	rec := &fakeRecorder{}
	p := NewPoller(&fakeLister{}, rec, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop with context")
	}
}

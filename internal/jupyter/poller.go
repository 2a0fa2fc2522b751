package jupyter

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/vigil/internal/models"
)

// SessionLister fetches the notebook server's live sessions.
type SessionLister interface {
	Sessions(ctx context.Context) ([]Session, error)
}

// Recorder accepts derived activity observations.
type Recorder interface {
	Observe(source, path string, at time.Time)
}

// Poller derives notebook activity from the sessions API on a fixed
// interval. A busy kernel counts as active right now; an idle kernel counts
// at its reported last_activity stamp. Only the single latest candidate per
// poll reaches the recorder. Fetch failures skip the tick.
type Poller struct {
	client   SessionLister
	recorder Recorder
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewPoller creates a Poller.
func NewPoller(client SessionLister, recorder Recorder, logger *slog.Logger, interval time.Duration) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:   client,
		recorder: recorder,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Run polls once immediately, then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller: started", slog.Duration("interval", p.interval))

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("poller: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	sessions, err := p.client.Sessions(ctx)
	if err != nil {
		p.logger.Warn("poller: fetch failed", slog.String("error", err.Error()))
		return
	}

	path, at, ok := latestCandidate(sessions, p.now().UTC())
	if !ok {
		return
	}
	p.recorder.Observe(models.SourcePoll, path, at)
}

// latestCandidate picks the most recently active notebook session.
func latestCandidate(sessions []Session, now time.Time) (string, time.Time, bool) {
	var (
		path  string
		at    time.Time
		found bool
	)
	for _, s := range sessions {
		if s.Type != "notebook" || s.Path == "" {
			continue
		}
		candidate := s.Kernel.LastActivity
		if s.Kernel.ExecutionState == "busy" {
			candidate = now
		}
		if candidate.IsZero() {
			continue
		}
		if !found || candidate.After(at) {
			path, at, found = s.Path, candidate, true
		}
	}
	return path, at, found
}

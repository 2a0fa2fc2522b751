package activity

import (
	"log/slog"
	"time"

	"github.com/starford/vigil/internal/models"
	"github.com/starford/vigil/internal/observability"
)

// Journal persists observed events.
type Journal interface {
	Append(ev models.Event) error
}

// Publisher broadcasts observed events to live subscribers.
type Publisher interface {
	PublishActivity(ev models.Event)
}

// Recorder routes observed events: the tracker is updated first, then the
// journal and the event stream. A failing journal is logged and skipped so
// persistence trouble never blocks activity tracking.
type Recorder struct {
	tracker *Tracker
	journal Journal
	pub     Publisher
	logger  *slog.Logger
}

// NewRecorder creates a Recorder. journal and pub may be nil.
func NewRecorder(tracker *Tracker, journal Journal, pub Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{tracker: tracker, journal: journal, pub: pub, logger: logger}
}

// Observe records one activity event from the given source.
func (r *Recorder) Observe(source, path string, at time.Time) {
	r.tracker.Observe(path, at)
	observability.RecordEvent(source)

	ev := models.Event{
		Path:       path,
		Source:     source,
		ObservedAt: at,
		RecordedAt: time.Now().UTC(),
	}
	if r.journal != nil {
		if err := r.journal.Append(ev); err != nil {
			r.logger.Warn("journal append failed",
				slog.String("path", path),
				slog.String("source", source),
				slog.String("error", err.Error()))
		}
	}
	if r.pub != nil {
		r.pub.PublishActivity(ev)
	}
}

// Package report implements the periodic presence reporter: each tick reads
// the last-activity record and writes exactly one point to InfluxDB.
package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/starford/vigil/internal/activity"
	"github.com/starford/vigil/internal/observability"
)

// PointWriter is the slice of the InfluxDB v2 blocking write API the
// reporter needs. api.WriteAPIBlocking satisfies it.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Publisher broadcasts report outcomes to live subscribers.
type Publisher interface {
	PublishReport(st Status)
}

// Status is the outcome of the most recent write attempt.
type Status struct {
	At           time.Time `json:"at"`
	OK           bool      `json:"ok"`
	Presence     int       `json:"presence"`
	NotebookPath string    `json:"notebook_path,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Options configures a Reporter.
type Options struct {
	Measurement  string
	Machine      string
	Interval     time.Duration
	ActiveWindow time.Duration
}

// Reporter reads the tracker on a fixed interval and writes one measurement
// point per tick. Write failures are logged and counted, never escalated;
// the loop only stops with its context.
type Reporter struct {
	tracker *activity.Tracker
	writer  PointWriter
	pub     Publisher
	logger  *slog.Logger
	opts    Options
	now     func() time.Time

	mu      sync.Mutex
	last    Status
	hasLast bool
}

// New creates a Reporter. pub may be nil.
func New(tracker *activity.Tracker, writer PointWriter, pub Publisher, logger *slog.Logger, opts Options) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		tracker: tracker,
		writer:  writer,
		pub:     pub,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Run reports once immediately, then on every tick until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.logger.Info("reporter: started",
		slog.String("measurement", r.opts.Measurement),
		slog.String("machine", r.opts.Machine),
		slog.Duration("interval", r.opts.Interval))

	for {
		r.ReportNow(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("reporter: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ReportNow performs one read-build-write cycle and returns its outcome.
// The API's manual trigger shares this path with the tick loop.
func (r *Reporter) ReportNow(ctx context.Context) Status {
	now := r.now().UTC()

	rec, observed := r.tracker.Last()

	presence := 0
	if observed && now.Sub(rec.ObservedAt) < r.opts.ActiveWindow {
		presence = 1
	}

	fields := map[string]any{"presence": presence}
	if observed {
		fields["notebook"] = rec.Path
		fields["last_seen_ms"] = rec.ObservedAt.UnixMilli()
	}
	point := write.NewPoint(r.opts.Measurement, map[string]string{"machine": r.opts.Machine}, fields, now)

	st := Status{At: now, Presence: presence}
	if observed {
		st.NotebookPath = rec.Path
	}

	if err := r.writer.WritePoint(ctx, point); err != nil {
		st.Error = err.Error()
		r.logger.Warn("reporter: write failed",
			slog.String("notebook", st.NotebookPath),
			slog.String("error", err.Error()))
	} else {
		st.OK = true
		r.logger.Debug("reporter: wrote point",
			slog.String("notebook", st.NotebookPath),
			slog.Int("presence", presence))
	}

	observability.RecordReport(st.OK, presence, now)

	r.mu.Lock()
	r.last = st
	r.hasLast = true
	r.mu.Unlock()

	if r.pub != nil {
		r.pub.PublishReport(st)
	}
	return st
}

// Status returns the most recent write outcome. The boolean is false before
// the first attempt.
func (r *Reporter) Status() (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}

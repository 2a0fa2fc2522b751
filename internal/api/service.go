package api

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/vigil/internal/activity"
	"github.com/starford/vigil/internal/apperr"
	"github.com/starford/vigil/internal/journal"
	"github.com/starford/vigil/internal/models"
	"github.com/starford/vigil/internal/report"
)

// MaxBulkEvents caps how many events one bulk request may carry.
const MaxBulkEvents = 1000

// Reporter is the slice of the reporting loop the API needs.
type Reporter interface {
	ReportNow(ctx context.Context) report.Status
	Status() (report.Status, bool)
}

// Sources describes which activity sources are enabled.
type Sources struct {
	Hook  bool `json:"hook"`
	Poll  bool `json:"poll"`
	Watch bool `json:"watch"`
}

// Service is the domain layer behind the HTTP handlers: hook-delivered
// events flow through the recorder, reads come from the tracker and the
// journal, and manual reports go to the reporter.
type Service struct {
	recorder *activity.Recorder
	tracker  *activity.Tracker
	journal  journal.Store
	reporter Reporter
	sources  Sources
	started  time.Time
	now      func() time.Time
}

// NewService creates a Service. journal and reporter may be nil in reduced
// deployments; the corresponding endpoints report unavailability.
func NewService(recorder *activity.Recorder, tracker *activity.Tracker, store journal.Store, reporter Reporter, sources Sources) *Service {
	return &Service{
		recorder: recorder,
		tracker:  tracker,
		journal:  store,
		reporter: reporter,
		sources:  sources,
		started:  time.Now(),
		now:      time.Now,
	}
}

// RecordActivity accepts one hook-delivered event and returns the resulting
// record. A nil observedAt means "now".
func (s *Service) RecordActivity(path string, observedAt *time.Time) models.Record {
	at := s.now().UTC()
	if observedAt != nil {
		at = observedAt.UTC()
	}
	s.recorder.Observe(models.SourceHook, path, at)
	rec, _ := s.tracker.Last()
	return rec
}

// RecordBulk accepts a batch of hook-delivered events in order and returns
// how many were recorded.
func (s *Service) RecordBulk(events []ActivityEventRequest) int {
	for _, ev := range events {
		s.RecordActivity(ev.Path, ev.ObservedAt)
	}
	return len(events)
}

// Current returns the last-activity record, or apperr.ErrNotFound before the
// first observation.
func (s *Service) Current() (models.Record, error) {
	rec, ok := s.tracker.Last()
	if !ok {
		return models.Record{}, apperr.ErrNotFound
	}
	return rec, nil
}

// Recent returns the latest journal events, newest first.
func (s *Service) Recent(limit int) ([]models.Event, error) {
	if s.journal == nil {
		return nil, apperr.ErrUnavailable
	}
	return s.journal.Recent(limit)
}

// Summary returns per-notebook event counts and last-seen stamps.
func (s *Service) Summary() ([]journal.NotebookSummary, error) {
	if s.journal == nil {
		return nil, apperr.ErrUnavailable
	}
	return s.journal.Summary()
}

// Status describes the running service.
func (s *Service) Status() StatusResponse {
	resp := StatusResponse{
		UptimeSeconds: int64(s.now().Sub(s.started).Seconds()),
		Sources:       s.sources,
	}
	if rec, ok := s.tracker.Last(); ok {
		resp.LastActivity = &rec
	}
	if s.reporter != nil {
		if st, ok := s.reporter.Status(); ok {
			resp.LastReport = &st
		}
	}
	return resp
}

// TriggerReport runs one report cycle outside the tick cadence.
func (s *Service) TriggerReport(ctx context.Context) (report.Status, error) {
	if s.reporter == nil {
		return report.Status{}, fmt.Errorf("reporter: %w", apperr.ErrUnavailable)
	}
	return s.reporter.ReportNow(ctx), nil
}

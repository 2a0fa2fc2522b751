package api

import (
	"time"

	"github.com/starford/vigil/internal/journal"
	"github.com/starford/vigil/internal/models"
	"github.com/starford/vigil/internal/report"
)

// ActivityEventRequest is one hook-delivered event. ObservedAt is optional;
// a missing stamp means "when the server accepted it".
type ActivityEventRequest struct {
	Path       string     `json:"path" example:"projects/analysis.ipynb" validate:"required"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}

// BulkActivityRequest is the body for POST /api/activity/bulk.
type BulkActivityRequest struct {
	Events []ActivityEventRequest `json:"events" validate:"required"`
}

// BulkActivityResponse reports how many events a bulk request recorded.
type BulkActivityResponse struct {
	Accepted int `json:"accepted" example:"3" validate:"required"`
}

// EventListResponse wraps journal event listings.
type EventListResponse struct {
	Events []models.Event `json:"events" validate:"required"`
}

// SummaryResponse wraps per-notebook aggregates.
type SummaryResponse struct {
	Notebooks []journal.NotebookSummary `json:"notebooks" validate:"required"`
}

// StatusResponse describes the running service.
type StatusResponse struct {
	UptimeSeconds int64          `json:"uptime_seconds" example:"3600"`
	LastActivity  *models.Record `json:"last_activity,omitempty"`
	LastReport    *report.Status `json:"last_report,omitempty"`
	Sources       Sources        `json:"sources"`
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/vigil/internal/apperr"
	"github.com/starford/vigil/internal/journal"
	"github.com/starford/vigil/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RecordActivity handles POST /api/activity.
//
//	@Summary		Record one notebook activity event
//	@Tags			activity
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ActivityEventRequest	true	"Observed event"
//	@Success		202		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity [post]
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ActivityEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	rec := h.svc.RecordActivity(req.Path, req.ObservedAt)
	writeJSON(w, http.StatusAccepted, rec)
}

// RecordBulk handles POST /api/activity/bulk.
//
//	@Summary		Record a batch of notebook activity events
//	@Tags			activity
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkActivityRequest	true	"Observed events, oldest first"
//	@Success		202		{object}	BulkActivityResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity/bulk [post]
func (h *Handler) RecordBulk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req BulkActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Events) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("events are required"))
		return
	}
	if len(req.Events) > MaxBulkEvents {
		writeJSON(w, http.StatusBadRequest, errorBody("too many events"))
		return
	}
	for _, ev := range req.Events {
		if ev.Path == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("every event needs a path"))
			return
		}
	}
	accepted := h.svc.RecordBulk(req.Events)
	writeJSON(w, http.StatusAccepted, BulkActivityResponse{Accepted: accepted})
}

// CurrentActivity handles GET /api/activity.
//
//	@Summary		Get the last-activity record
//	@Tags			activity
//	@Produce		json
//	@Success		200	{object}	models.Record
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity [get]
func (h *Handler) CurrentActivity(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Current()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no activity observed yet"))
		} else {
			slog.Error("current activity failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// RecentActivity handles GET /api/activity/recent.
//
//	@Summary		List recent activity events, newest first
//	@Tags			activity
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum events to return"
//	@Success		200		{object}	EventListResponse
//	@Security		BearerAuth
//	@Router			/activity/recent [get]
func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.svc.Recent(limit)
	if err != nil {
		if errors.Is(err, apperr.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("journal unavailable"))
			return
		}
		slog.Error("recent activity failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: events})
}

// Summary handles GET /api/activity/summary.
//
//	@Summary		Per-notebook event counts and last-seen stamps
//	@Tags			activity
//	@Produce		json
//	@Success		200	{object}	SummaryResponse
//	@Security		BearerAuth
//	@Router			/activity/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.svc.Summary()
	if err != nil {
		if errors.Is(err, apperr.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("journal unavailable"))
			return
		}
		slog.Error("summary failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if notebooks == nil {
		notebooks = []journal.NotebookSummary{}
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Notebooks: notebooks})
}

// GetStatus handles GET /api/status.
//
//	@Summary		Service status: uptime, current record, last report, sources
//	@Tags			status
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Security		BearerAuth
//	@Router			/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// TriggerReport handles POST /api/report.
//
//	@Summary		Run one report cycle immediately
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	report.Status
//	@Failure		503	{object}	report.Status
//	@Security		BearerAuth
//	@Router			/report [post]
func (h *Handler) TriggerReport(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.TriggerReport(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("reporter unavailable"))
		return
	}
	if !st.OK {
		writeJSON(w, http.StatusServiceUnavailable, st)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

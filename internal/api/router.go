package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Activity: hook ingest + reads.
	r.Post("/activity", h.RecordActivity)
	r.Post("/activity/bulk", h.RecordBulk)
	r.Get("/activity", h.CurrentActivity)
	r.Get("/activity/recent", h.RecentActivity)
	r.Get("/activity/summary", h.Summary)

	// Service status.
	r.Get("/status", h.GetStatus)

	// Manual report trigger.
	r.Post("/report", h.TriggerReport)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

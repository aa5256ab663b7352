package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"munibond/internal/dataset"
)

// SnapshotProvider exposes the current snapshot for health reporting.
type SnapshotProvider interface {
	Snapshot() *dataset.Snapshot
}

// HealthHandler reports service and dataset status.
type HealthHandler struct {
	snapshots SnapshotProvider
	started   time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(snapshots SnapshotProvider) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, started: time.Now()}
}

// Routes sets up the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "ok",
		"uptime":  time.Since(h.started).String(),
		"dataset": nil,
	}
	if snap := h.snapshots.Snapshot(); snap != nil {
		response["dataset"] = map[string]any{
			"version":  snap.Version(),
			"taken_at": snap.TakenAt().Format(time.RFC3339),
			"counts":   snap.Counts(),
		}
	} else {
		response["status"] = "degraded"
	}
	render.JSON(w, r, response)
}

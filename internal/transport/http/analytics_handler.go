package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "munibond/internal/errors"
	"munibond/internal/middleware"
	"munibond/internal/query"
	"munibond/internal/services"
)

// AnalyticsServiceInterface is the service seam the handler depends
// on, kept narrow for handler tests.
type AnalyticsServiceInterface interface {
	MetricNames() []string
	Metric(ctx context.Context, name string) (*query.Table, error)
	Dashboard(ctx context.Context) (*services.Dashboard, error)
}

// AnalyticsHandler handles the analytics HTTP surface.
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListMetrics)
	r.Get("/dashboard", h.GetDashboard)
	r.Route("/{metric}", func(r chi.Router) {
		r.Use(h.MetricCtx)
		r.Get("/", h.GetMetric)
	})

	return r
}

// MetricCtx validates the metric name parameter.
func (h *AnalyticsHandler) MetricCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "metric")
		known := false
		for _, n := range h.service.MetricNames() {
			if n == name {
				known = true
				break
			}
		}
		if !known {
			h.errorHandler.HandleError(w, r, apierrors.MetricNotFoundError(name))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TableResponse is the JSON shape of one metric table. Columns carry
// the presentation order; rows are column-keyed objects.
type TableResponse struct {
	Metric  string      `json:"metric"`
	Columns []string    `json:"columns"`
	Rows    []query.Row `json:"rows"`
	Count   int         `json:"count"`
}

// NewTableResponse converts a query table for rendering.
func NewTableResponse(metric string, t *query.Table) *TableResponse {
	return &TableResponse{
		Metric:  metric,
		Columns: t.Columns,
		Rows:    t.Rows,
		Count:   t.Len(),
	}
}

// ListMetrics handles GET /api/analytics
func (h *AnalyticsHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"metrics": h.service.MetricNames(),
	})
}

// GetMetric handles GET /api/analytics/{metric}
func (h *AnalyticsHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "metric")

	h.logger.InfoContext(r.Context(), "computing metric",
		slog.String("metric", name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	table, err := h.service.Metric(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, NewTableResponse(name, table))
}

// GetDashboard handles GET /api/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "computing dashboard",
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tables := make(map[string]*TableResponse, len(dash.Metrics))
	for name, t := range dash.Metrics {
		tables[name] = NewTableResponse(name, t)
	}
	render.JSON(w, r, map[string]any{
		"metrics":           tables,
		"volume_by_state":   NewTableResponse("volume_by_state", dash.VolumeByState),
		"volume_summary":    dash.VolumeSummary,
		"sentiment_by_year": NewTableResponse("sentiment_by_year", dash.SentimentByYear),
	})
}

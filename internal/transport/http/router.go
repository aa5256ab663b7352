package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"munibond/internal/config"
	apierrors "munibond/internal/errors"
	custommw "munibond/internal/middleware"
	"munibond/internal/services"
)

// NewRouter assembles the full HTTP surface: middleware chain,
// analytics API, health and Prometheus instrumentation. The
// Prometheus endpoint sits outside the rate-limited group so scrapes
// never compete with API traffic.
func NewRouter(cfg *config.Config, logger *slog.Logger, service *services.AnalyticsService) chi.Router {
	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Development)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(logger))
		r.Use(custommw.Recoverer(logger))
		if cfg.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Mount("/health", NewHealthHandler(service).Routes())
			r.Mount("/analytics", NewAnalyticsHandler(service, logger, errorHandler).Routes())
		})

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})

	return r
}

// Package services orchestrates the analytics layer: it owns the
// current snapshot, routes metric requests through the evaluator and
// the memoization cache, and computes the full metric set concurrently
// for the dashboard and report surfaces.
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"munibond/internal/dataset"
	apierrors "munibond/internal/errors"
	"munibond/internal/metrics"
	"munibond/internal/query"
)

// AnalyticsService serves metric tables over the current snapshot.
// Metric computations are pure and read-only, so any number may run
// concurrently against one snapshot; only snapshot replacement takes
// the write lock.
type AnalyticsService struct {
	logger    *slog.Logger
	registry  *metrics.Registry
	evaluator metrics.Evaluator
	cache     *metrics.Cache

	mu       sync.RWMutex
	snapshot *dataset.Snapshot

	computations *prometheus.CounterVec
	cacheHits    prometheus.Counter
}

// NewAnalyticsService wires the service. The registerer may be nil to
// skip instrumentation registration (tests).
func NewAnalyticsService(logger *slog.Logger, registry *metrics.Registry, evaluator metrics.Evaluator, cache *metrics.Cache, reg prometheus.Registerer) *AnalyticsService {
	s := &AnalyticsService{
		logger:    logger.With(slog.String("component", "analytics_service")),
		registry:  registry,
		evaluator: evaluator,
		cache:     cache,
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "munibond_metric_computations_total",
			Help: "Number of metric computations by metric name.",
		}, []string{"metric"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "munibond_metric_cache_hits_total",
			Help: "Number of metric requests served from the cache.",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.computations, s.cacheHits)
	}
	return s
}

// ReplaceSnapshot swaps in a new snapshot and invalidates any cached
// results for the one it replaces.
func (s *AnalyticsService) ReplaceSnapshot(snap *dataset.Snapshot) {
	s.mu.Lock()
	old := s.snapshot
	s.snapshot = snap
	s.mu.Unlock()

	if old != nil {
		s.cache.InvalidateSnapshot(old.Version())
	}
	s.logger.Info("snapshot replaced",
		slog.String("version", snap.Version()),
		slog.Any("counts", snap.Counts()),
	)
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *AnalyticsService) Snapshot() *dataset.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// MetricNames lists the available metrics in registration order.
func (s *AnalyticsService) MetricNames() []string {
	return s.registry.Names()
}

// Metric computes one metric, serving from the cache when the same
// (metric, evaluator, snapshot) triple was computed before.
func (s *AnalyticsService) Metric(ctx context.Context, name string) (*query.Table, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, apierrors.ErrNoDataset
	}

	if table, ok := s.cache.Get(name, s.evaluator.Name(), snap.Version()); ok {
		s.cacheHits.Inc()
		return table, nil
	}

	table, err := s.evaluator.Evaluate(ctx, name, snap)
	if err != nil {
		return nil, apierrors.ComputeError(name, err)
	}
	s.computations.WithLabelValues(name).Inc()
	s.cache.Put(name, s.evaluator.Name(), snap.Version(), table)
	return table, nil
}

// AllMetrics computes every registered metric concurrently. The eight
// metrics have no ordering dependency between them; each reads the
// same immutable snapshot.
func (s *AnalyticsService) AllMetrics(ctx context.Context) (map[string]*query.Table, error) {
	names := s.registry.Names()
	results := make([]*query.Table, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			table, err := s.Metric(gctx, name)
			if err != nil {
				return err
			}
			results[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*query.Table, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// Dashboard bundles the derived presentation views on top of the raw
// metric tables: the per-state volume rollup, the headline volume
// summary and the net sentiment trend.
type Dashboard struct {
	Metrics         map[string]*query.Table `json:"metrics"`
	VolumeByState   *query.Table            `json:"volume_by_state"`
	VolumeSummary   metrics.VolumeSummary   `json:"volume_summary"`
	SentimentByYear *query.Table            `json:"sentiment_by_year"`
}

// Dashboard computes all metrics plus the derived views.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	all, err := s.AllMetrics(ctx)
	if err != nil {
		return nil, err
	}
	volume := all[metrics.MetricIssuanceVolume]
	sentiment := all[metrics.MetricCreditSentiment]
	return &Dashboard{
		Metrics:         all,
		VolumeByState:   metrics.VolumeByState(volume),
		VolumeSummary:   metrics.SummarizeVolume(volume),
		SentimentByYear: metrics.CreditSentimentByYear(sentiment),
	}, nil
}

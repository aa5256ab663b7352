package metrics

import (
	"fmt"
	"sort"

	"munibond/internal/dataset"
	"munibond/internal/query"
)

// Canonical metric names.
const (
	MetricAvgCouponByPurpose    = "avg_coupon_by_purpose"
	MetricIssuanceVolume        = "issuance_volume_by_state"
	MetricStateYieldStats       = "state_yield_stats"
	MetricTimeSeriesMacro       = "time_series_macro"
	MetricCreditSentiment       = "credit_sentiment"
	MetricLongDurationLiquidity = "long_duration_liquidity"
	MetricUndervaluedBonds      = "undervalued_bonds"
	MetricYieldSpread           = "yield_spread"
)

// ComputeFunc is a pure function from an immutable snapshot to an
// output table, already joined, aggregated, sorted, limited and
// rounded.
type ComputeFunc func(s *dataset.Snapshot) (*query.Table, error)

// Definition describes one named metric.
type Definition struct {
	Name        string
	Description string
	Compute     ComputeFunc
}

// Registry holds the metric definitions by name.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry returns a registry pre-populated with the eight
// canonical metrics.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition)}
	r.register(Definition{
		Name:        MetricAvgCouponByPurpose,
		Description: "Average coupon rate per bond purpose category",
		Compute:     AvgCouponByPurpose,
	})
	r.register(Definition{
		Name:        MetricIssuanceVolume,
		Description: "Bond issuance counts per state and issuer type (high-volume groups only)",
		Compute:     IssuanceVolumeByState,
	})
	r.register(Definition{
		Name:        MetricStateYieldStats,
		Description: "Mean and population stddev of trade yields per state",
		Compute:     StateYieldStats,
	})
	r.register(Definition{
		Name:        MetricTimeSeriesMacro,
		Description: "Monthly yields overlaid with state unemployment rates",
		Compute:     TimeSeriesMacro,
	})
	r.register(Definition{
		Name:        MetricCreditSentiment,
		Description: "Annual positive/negative rating outlook counts and sentiment scores",
		Compute:     CreditSentiment,
	})
	r.register(Definition{
		Name:        MetricLongDurationLiquidity,
		Description: "Most recent trades in long-duration bonds",
		Compute:     LongDurationLiquidity,
	})
	r.register(Definition{
		Name:        MetricUndervaluedBonds,
		Description: "Bonds whose latest trade price sits below their historical average",
		Compute:     UndervaluedBonds,
	})
	r.register(Definition{
		Name:        MetricYieldSpread,
		Description: "Trade yield spread over the matching-month 10-year treasury rate",
		Compute:     YieldSpread,
	})
	return r
}

func (r *Registry) register(d Definition) {
	r.defs[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Get looks up a metric definition by name.
func (r *Registry) Get(name string) (Definition, error) {
	d, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("metric %q not found", name)
	}
	return d, nil
}

// Names returns the metric names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SortedNames returns the metric names alphabetically, for stable
// listings.
func (r *Registry) SortedNames() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}

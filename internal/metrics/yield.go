package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// yieldSpreadLimit caps the yield-spread output at the widest spreads.
const yieldSpreadLimit = 50

// StateYieldStats computes the mean and population standard deviation
// of trade yields per issuer state, ordered by state code.
func StateYieldStats(s *dataset.Snapshot) (*query.Table, error) {
	joined := tradesWithIssuers(s)

	out := query.GroupBy(joined,
		[]string{"state_code"},
		[]query.Aggregation{
			{Column: "yield_pct", Reducer: query.Mean, As: "avg_yield"},
			{Column: "yield_pct", Reducer: query.PopStdDev, As: "std_dev_yield"},
		})

	query.SortBy(out, func(a, b query.Row) bool {
		as, _ := a.String("state_code")
		bs, _ := b.String("state_code")
		return as < bs
	})
	return query.RoundColumns(out, 3, "avg_yield", "std_dev_yield"), nil
}

// YieldSpread computes, per trade, the premium of the trade yield over
// the 10-year treasury rate from the macro record matching the
// issuer's state and the trade's calendar month. Row-level output,
// widest spreads first, ties broken by trade ID for determinism.
func YieldSpread(s *dataset.Snapshot) (*query.Table, error) {
	joined := tradesWithMacro(s)

	out := query.NewTable("trade_id", "issuer_name", "trade_date",
		"bond_yield", "treasury_rate", "yield_spread_bps")
	for _, r := range joined.Rows {
		y, _ := r.Float("yield_pct")
		t, _ := r.Float("treasury_10yr_rate_pct")
		out.Append(query.Row{
			"trade_id":         r["trade_id"],
			"issuer_name":      r["issuer_name"],
			"trade_date":       r["trade_date"],
			"bond_yield":       y,
			"treasury_rate":    t,
			"yield_spread_bps": y - t,
		})
	}

	query.SortBy(out, func(a, b query.Row) bool {
		av, _ := a.Float("yield_spread_bps")
		bv, _ := b.Float("yield_spread_bps")
		if av != bv {
			return av > bv
		}
		ai, _ := a.Float("trade_id")
		bi, _ := b.Float("trade_id")
		return ai < bi
	})
	query.Limit(out, yieldSpreadLimit)
	return query.RoundColumns(out, 3, "bond_yield", "treasury_rate", "yield_spread_bps"), nil
}

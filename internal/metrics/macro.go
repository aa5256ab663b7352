package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// TimeSeriesMacro aligns trades with their issuer state's monthly
// macro record (calendar-month match, day-of-month irrelevant) and
// averages yield and unemployment per (macro date, state), oldest
// first. Trades whose month has no macro record are excluded.
func TimeSeriesMacro(s *dataset.Snapshot) (*query.Table, error) {
	joined := tradesWithMacro(s)

	out := query.GroupBy(joined,
		[]string{"date", "state_code"},
		[]query.Aggregation{
			{Column: "yield_pct", Reducer: query.Mean, As: "avg_yield"},
			{Column: "unemployment_rate_pct", Reducer: query.Mean, As: "unemployment_rate"},
		})

	query.SortBy(out, func(a, b query.Row) bool {
		ad, _ := a.Time("date")
		bd, _ := b.Time("date")
		if !ad.Equal(bd) {
			return ad.Before(bd)
		}
		as, _ := a.String("state_code")
		bs, _ := b.String("state_code")
		return as < bs
	})
	return query.RoundColumns(out, 3, "avg_yield", "unemployment_rate"), nil
}

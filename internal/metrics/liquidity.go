package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// longDurationMinYears is the duration cutoff for the long-duration
// view. Strictly greater than; a 6.0-year bond is not long-duration.
const longDurationMinYears = 6.0

// longDurationLimit caps the row-level output at the most recent
// trades.
const longDurationLimit = 100

// LongDurationLiquidity lists the most recent trades in bonds with a
// duration above longDurationMinYears, newest first, ties broken by
// trade ID. Row-level output joined through bond, issuer and purpose.
func LongDurationLiquidity(s *dataset.Snapshot) (*query.Table, error) {
	joined := query.InnerJoin(tradesWithIssuers(s), purposeFrame(s),
		query.ColumnKey("purpose_id"), query.ColumnKey("purpose_id"))

	longDuration := query.Filter(joined, func(r query.Row) bool {
		d, ok := r.Float("duration_years")
		return ok && d > longDurationMinYears
	})

	query.SortBy(longDuration, func(a, b query.Row) bool {
		ad, _ := a.Time("trade_date")
		bd, _ := b.Time("trade_date")
		if !ad.Equal(bd) {
			return ad.After(bd)
		}
		ai, _ := a.Float("trade_id")
		bi, _ := b.Float("trade_id")
		return ai > bi
	})
	query.Limit(longDuration, longDurationLimit)

	out := longDuration.Select("trade_date", "issuer_name", "bond_id",
		"trade_price_usd", "yield_pct", "duration_years", "purpose_category", "buyer_type")
	return query.RoundColumns(out, 3, "yield_pct"), nil
}

// LongDurationByIssuer aggregates a long-duration table to one row per
// issuer: total trades, mean duration and mean price, most actively
// traded issuers first. topN <= 0 keeps all issuers.
func LongDurationByIssuer(longDuration *query.Table, topN int) *query.Table {
	out := query.GroupBy(longDuration,
		[]string{"issuer_name"},
		[]query.Aggregation{
			{Reducer: query.Count, As: "total_trades"},
			{Column: "duration_years", Reducer: query.Mean, As: "avg_duration_years"},
			{Column: "trade_price_usd", Reducer: query.Mean, As: "average_trade_price"},
		})

	query.SortBy(out, func(a, b query.Row) bool {
		an, _ := a.Float("total_trades")
		bn, _ := b.Float("total_trades")
		if an != bn {
			return an > bn
		}
		ai, _ := a.String("issuer_name")
		bi, _ := b.String("issuer_name")
		return ai < bi
	})
	query.Limit(out, topN)
	return query.RoundColumns(out, 2, "avg_duration_years", "average_trade_price")
}

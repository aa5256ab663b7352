package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// AvgCouponByPurpose computes the mean coupon rate per purpose
// category across all bonds, highest-paying purposes first.
func AvgCouponByPurpose(s *dataset.Snapshot) (*query.Table, error) {
	joined := query.InnerJoin(bondFrame(s), purposeFrame(s),
		query.ColumnKey("purpose_id"), query.ColumnKey("purpose_id"))

	out := query.GroupBy(joined,
		[]string{"purpose_category"},
		[]query.Aggregation{
			{Column: "coupon_rate_pct", Reducer: query.Mean, As: "average_coupon_rate_pct"},
		})

	query.SortFloatDesc(out, "average_coupon_rate_pct")
	return query.RoundColumns(out, 3, "average_coupon_rate_pct"), nil
}

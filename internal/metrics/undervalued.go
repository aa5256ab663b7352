package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// undervaluedLimit caps the output at the deepest discounts.
const undervaluedLimit = 20

// UndervaluedBonds finds bonds whose most recent trade price is below
// their historical average trade price. The historical average covers
// every trade of the bond, including the most recent one, so a bond
// with a single trade can never qualify. "Most recent" is the maximum
// trade date, ties broken by the greater trade ID. Output is ordered
// by discount depth (average minus current), deepest first.
func UndervaluedBonds(s *dataset.Snapshot) (*query.Table, error) {
	trades := tradesWithIssuers(s)

	latest := query.MostRecent(trades, "bond_id", "trade_date", "trade_id")
	averages := query.PartitionMean(trades, "bond_id", "trade_price_usd")

	out := query.NewTable("bond_id", "issuer_name",
		"current_price", "avg_trade_price", "price_difference")
	for _, r := range latest.Rows {
		key, ok := query.ColumnKey("bond_id")(r)
		if !ok {
			continue
		}
		avg, ok := averages[key]
		if !ok {
			continue
		}
		current, _ := r.Float("trade_price_usd")
		if current >= avg {
			continue
		}
		out.Append(query.Row{
			"bond_id":          r["bond_id"],
			"issuer_name":      r["issuer_name"],
			"current_price":    current,
			"avg_trade_price":  avg,
			"price_difference": avg - current,
		})
	}

	query.SortBy(out, func(a, b query.Row) bool {
		av, _ := a.Float("price_difference")
		bv, _ := b.Float("price_difference")
		if av != bv {
			return av > bv
		}
		ai, _ := a.String("bond_id")
		bi, _ := b.String("bond_id")
		return ai < bi
	})
	query.Limit(out, undervaluedLimit)
	return query.RoundColumns(out, 2,
		"current_price", "avg_trade_price", "price_difference"), nil
}

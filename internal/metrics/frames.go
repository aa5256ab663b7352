package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// The frame builders project entity slices into query tables. Rows
// failing entity validation are excluded here, once, so every metric
// sees the same cleaned inputs.

func issuerFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("issuer_id", "issuer_name", "state_code", "issuer_type")
	for _, i := range s.Issuers {
		if !i.IsValid() {
			continue
		}
		t.Append(query.Row{
			"issuer_id":   i.ID,
			"issuer_name": i.Name,
			"state_code":  i.StateCode,
			"issuer_type": string(i.Type),
		})
	}
	return t
}

func purposeFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("purpose_id", "purpose_category")
	for _, p := range s.Purposes {
		if !p.IsValid() {
			continue
		}
		t.Append(query.Row{
			"purpose_id":       p.ID,
			"purpose_category": p.Category,
		})
	}
	return t
}

func bondFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("bond_id", "issuer_id", "purpose_id",
		"coupon_rate_pct", "face_value_usd", "duration_years", "issue_date")
	for _, b := range s.Bonds {
		if !b.IsValid() {
			continue
		}
		t.Append(query.Row{
			"bond_id":         b.ID,
			"issuer_id":       b.IssuerID,
			"purpose_id":      b.PurposeID,
			"coupon_rate_pct": b.CouponRatePct,
			"face_value_usd":  b.FaceValueUSD,
			"duration_years":  b.DurationYears,
			"issue_date":      b.IssueDate,
		})
	}
	return t
}

func tradeFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("trade_id", "bond_id", "trade_date",
		"trade_price_usd", "yield_pct", "buyer_type")
	for _, tr := range s.Trades {
		if !tr.IsValid() {
			continue
		}
		t.Append(query.Row{
			"trade_id":        tr.ID,
			"bond_id":         tr.BondID,
			"trade_date":      tr.Date,
			"trade_price_usd": tr.PriceUSD,
			"yield_pct":       tr.YieldPct,
			"buyer_type":      tr.BuyerType,
		})
	}
	return t
}

func ratingFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("rating_id", "rating_date", "outlook")
	for _, r := range s.Ratings {
		if !r.IsValid() {
			continue
		}
		t.Append(query.Row{
			"rating_id":   r.ID,
			"rating_date": r.Date,
			"outlook":     string(r.Outlook),
		})
	}
	return t
}

func macroFrame(s *dataset.Snapshot) *query.Table {
	t := query.NewTable("state_code", "date",
		"unemployment_rate_pct", "treasury_10yr_rate_pct")
	for _, m := range s.Macro {
		if !m.IsValid() {
			continue
		}
		t.Append(query.Row{
			"state_code":             m.StateCode,
			"date":                   m.Date,
			"unemployment_rate_pct":  m.UnemploymentRatePct,
			"treasury_10yr_rate_pct": m.Treasury10YrRatePct,
		})
	}
	return t
}

// tradesWithIssuers is the Trade↔Bond↔Issuer join shared by several
// metrics: one row per trade carrying its bond and issuer columns.
func tradesWithIssuers(s *dataset.Snapshot) *query.Table {
	trades := query.InnerJoin(tradeFrame(s), bondFrame(s),
		query.ColumnKey("bond_id"), query.ColumnKey("bond_id"))
	return query.InnerJoin(trades, issuerFrame(s),
		query.ColumnKey("issuer_id"), query.ColumnKey("issuer_id"))
}

// tradesWithMacro additionally joins each trade to its issuer state's
// macro record for the trade's calendar month. Trades in months with
// no macro record drop out, as do issuers without a state code.
func tradesWithMacro(s *dataset.Snapshot) *query.Table {
	return query.InnerJoin(tradesWithIssuers(s), macroFrame(s),
		query.MonthKey("state_code", "trade_date"),
		query.MonthKey("state_code", "date"))
}

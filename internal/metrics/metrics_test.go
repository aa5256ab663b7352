package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munibond/internal/dataset"
	"munibond/internal/query"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func issuer(id int64, name, state string, typ dataset.IssuerType) dataset.Issuer {
	return dataset.Issuer{ID: id, Name: name, StateCode: state, Type: typ}
}

func bond(id string, issuerID, purposeID int64, coupon, duration float64) dataset.Bond {
	return dataset.Bond{
		ID: id, IssuerID: issuerID, PurposeID: purposeID,
		CouponRatePct: coupon, FaceValueUSD: 1_000_000, DurationYears: duration,
		IssueDate: day(2020, 1, 15),
	}
}

func trade(id int64, bondID string, d time.Time, price, yield float64) dataset.Trade {
	return dataset.Trade{
		ID: id, BondID: bondID, Date: d,
		PriceUSD: price, YieldPct: yield, BuyerType: "Retail",
	}
}

func rating(id int64, d time.Time, outlook dataset.Outlook) dataset.CreditRating {
	return dataset.CreditRating{ID: id, BondID: "B1", Date: d, Outlook: outlook, Agency: "Moody's"}
}

func macro(state string, d time.Time, unemployment, treasury10 float64) dataset.MacroIndicator {
	return dataset.MacroIndicator{
		StateCode: state, Date: d,
		UnemploymentRatePct: unemployment, Treasury10YrRatePct: treasury10,
		Treasury20YrRatePct: treasury10 + 0.5, VIXIndex: 18.0,
	}
}

func column(t *testing.T, tbl *query.Table, col string) []any {
	t.Helper()
	out := make([]any, 0, tbl.Len())
	for _, r := range tbl.Rows {
		out = append(out, r[col])
	}
	return out
}

func TestAvgCouponByPurpose(t *testing.T) {
	snap := dataset.NewSnapshot(
		nil,
		[]dataset.BondPurpose{
			{ID: 1, Category: "Education"},
			{ID: 2, Category: "Housing"},
			{ID: 3, Category: "Transit"}, // no bonds reference it
		},
		[]dataset.Bond{
			bond("B1", 1, 1, 3.905, 10),
			bond("B2", 1, 1, 3.985, 8),
			bond("B3", 2, 2, 3.0, 5),
			bond("B4", 2, 99, 9.0, 5), // dangling purpose, excluded
		},
		nil, nil, nil,
	)

	out, err := AvgCouponByPurpose(snap)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"Education", "Housing"}, column(t, out, "purpose_category"))
	assert.Equal(t, []any{3.945, 3.0}, column(t, out, "average_coupon_rate_pct"))
}

func TestIssuanceVolumeByState(t *testing.T) {
	issuers := []dataset.Issuer{
		issuer(1, "Travis County", "TX", dataset.IssuerCounty),
		issuer(2, "Los Angeles USD", "CA", dataset.IssuerDistrict),
		issuer(3, "City of Austin", "TX", dataset.IssuerCity),
	}
	purposes := []dataset.BondPurpose{{ID: 1, Category: "Education"}}

	var bonds []dataset.Bond
	addBonds := func(prefix string, issuerID int64, n int, coupon float64) {
		for i := 0; i < n; i++ {
			bonds = append(bonds, bond(prefix+string(rune('a'+i)), issuerID, 1, coupon, 10))
		}
	}
	addBonds("tx-county-", 1, 12, 4.0)
	addBonds("ca-district-", 2, 11, 3.0)
	addBonds("tx-city-", 3, 10, 5.0) // exactly at the threshold

	snap := dataset.NewSnapshot(issuers, purposes, bonds, nil, nil, nil)

	out, err := IssuanceVolumeByState(snap)
	require.NoError(t, err)

	// The threshold is strict: a group of exactly 10 is not high-volume.
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"TX", "CA"}, column(t, out, "state_code"))
	assert.Equal(t, []any{string(dataset.IssuerCounty), string(dataset.IssuerDistrict)},
		column(t, out, "issuer_type"))
	assert.Equal(t, []any{int64(12), int64(11)}, column(t, out, "total_bonds_issued"))
	assert.Equal(t, []any{4.0, 3.0}, column(t, out, "avg_coupon_rate"))
}

func TestVolumeByState_RollsUpIssuerTypes(t *testing.T) {
	issuance := query.NewTable("state_code", "issuer_type", "total_bonds_issued", "avg_coupon_rate")
	issuance.Append(query.Row{"state_code": "CA", "issuer_type": "District", "total_bonds_issued": int64(161), "avg_coupon_rate": 3.783})
	issuance.Append(query.Row{"state_code": "TX", "issuer_type": "County", "total_bonds_issued": int64(67), "avg_coupon_rate": 3.945})
	issuance.Append(query.Row{"state_code": "TX", "issuer_type": "City", "total_bonds_issued": int64(120), "avg_coupon_rate": 4.1})

	out := VolumeByState(issuance)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"TX", "CA"}, column(t, out, "state_code"))
	assert.Equal(t, []any{187.0, 161.0}, column(t, out, "total_bonds_issued"))
}

func TestSummarizeVolume(t *testing.T) {
	issuance := query.NewTable("state_code", "issuer_type", "total_bonds_issued", "avg_coupon_rate")
	issuance.Append(query.Row{"state_code": "CA", "issuer_type": "District", "total_bonds_issued": int64(161), "avg_coupon_rate": 3.8})
	issuance.Append(query.Row{"state_code": "TX", "issuer_type": "County", "total_bonds_issued": int64(67), "avg_coupon_rate": 4.0})

	sum := SummarizeVolume(issuance)

	assert.Equal(t, 2, sum.Groups)
	assert.Equal(t, int64(161), sum.MaxBonds)
	assert.Equal(t, "CA", sum.MaxStateCode)
	assert.Equal(t, "District", sum.MaxIssuerType)
	assert.Equal(t, 3.9, sum.AvgCouponRate)

	empty := SummarizeVolume(query.NewTable("state_code", "issuer_type", "total_bonds_issued", "avg_coupon_rate"))
	assert.Equal(t, VolumeSummary{}, empty)
}

func TestStateYieldStats(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{
			issuer(1, "Travis County", "TX", dataset.IssuerCounty),
			issuer(2, "Los Angeles USD", "CA", dataset.IssuerDistrict),
		},
		[]dataset.BondPurpose{{ID: 1, Category: "Education"}},
		[]dataset.Bond{
			bond("B1", 1, 1, 4.0, 10),
			bond("B2", 1, 1, 3.5, 5),
			bond("B3", 2, 1, 3.0, 7),
			bond("B4", 99, 1, 9.0, 7), // dangling issuer
		},
		[]dataset.Trade{
			trade(1, "B1", day(2024, 3, 10), 101, 4.5),
			trade(2, "B1", day(2024, 5, 20), 99, 4.7),
			trade(3, "B2", day(2024, 3, 15), 100, 3.9),
			trade(4, "B2", day(2024, 4, 1), 102, 5.1),
			trade(5, "B3", day(2024, 3, 12), 98, 4.1),
			trade(6, "B4", day(2024, 3, 1), 100, 9.9),   // drops at issuer join
			trade(7, "B-GONE", day(2024, 3, 1), 100, 9), // drops at bond join
		},
		nil, nil,
	)

	out, err := StateYieldStats(snap)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"CA", "TX"}, column(t, out, "state_code"))
	assert.Equal(t, []any{4.1, 4.55}, column(t, out, "avg_yield"))
	// CA has a single trade: stddev 0, never NaN.
	assert.Equal(t, []any{0.0, 0.433}, column(t, out, "std_dev_yield"))
}

func TestTimeSeriesMacro(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{
			issuer(1, "Travis County", "TX", dataset.IssuerCounty),
			issuer(2, "Los Angeles USD", "CA", dataset.IssuerDistrict),
		},
		[]dataset.BondPurpose{{ID: 1, Category: "Education"}},
		[]dataset.Bond{
			bond("B1", 1, 1, 4.0, 10),
			bond("B2", 2, 1, 3.0, 7),
		},
		[]dataset.Trade{
			trade(1, "B1", day(2024, 3, 10), 101, 4.5),
			trade(2, "B1", day(2024, 3, 27), 100, 3.9),
			trade(3, "B1", day(2024, 4, 2), 102, 5.1),
			trade(4, "B2", day(2024, 3, 12), 98, 4.1),
			trade(5, "B1", day(2024, 5, 9), 97, 6.0), // no May macro record
		},
		nil,
		[]dataset.MacroIndicator{
			macro("TX", day(2024, 3, 1), 4.0, 3.0),
			macro("TX", day(2024, 4, 15), 4.2, 3.1), // mid-month record still matches
			macro("CA", day(2024, 3, 1), 5.0, 3.0),
		},
	)

	out, err := TimeSeriesMacro(snap)
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []any{day(2024, 3, 1), day(2024, 3, 1), day(2024, 4, 15)},
		column(t, out, "date"))
	assert.Equal(t, []any{"CA", "TX", "TX"}, column(t, out, "state_code"))
	assert.Equal(t, []any{4.1, 4.2, 5.1}, column(t, out, "avg_yield"))
	assert.Equal(t, []any{5.0, 4.0, 4.2}, column(t, out, "unemployment_rate"))
}

func TestCreditSentiment(t *testing.T) {
	var ratings []dataset.CreditRating
	id := int64(0)
	add := func(year, n int, outlook dataset.Outlook) {
		for i := 0; i < n; i++ {
			id++
			ratings = append(ratings, rating(id, day(year, 6, 1+i%28), outlook))
		}
	}
	add(2024, 17, dataset.OutlookPositive)
	add(2024, 9, dataset.OutlookNegative)
	add(2024, 5, dataset.OutlookStable) // excluded from the tally
	add(2023, 2, dataset.OutlookPositive)
	id++
	ratings = append(ratings, rating(id, day(2024, 6, 1), dataset.Outlook("Watchlist"))) // invalid enum

	snap := dataset.NewSnapshot(nil, nil, nil, nil, ratings, nil)

	out, err := CreditSentiment(snap)
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []any{int64(2024), int64(2024), int64(2023)}, column(t, out, "rating_year"))
	assert.Equal(t, []any{"Positive", "Negative", "Positive"}, column(t, out, "outlook"))
	assert.Equal(t, []any{int64(17), int64(9), int64(2)}, column(t, out, "total_ratings_in_year"))
	assert.Equal(t, []any{100.0, -100.0, 100.0}, column(t, out, "average_sentiment_score"))

	t.Run("net score per year", func(t *testing.T) {
		byYear := CreditSentimentByYear(out)
		require.Equal(t, 2, byYear.Len())
		assert.Equal(t, []any{int64(2023), int64(2024)}, column(t, byYear, "rating_year"))
		// 2024: (17*100 + 9*-100) / 26
		assert.Equal(t, []any{100.0, 30.77}, column(t, byYear, "average_sentiment_score"))
	})
}

func TestLongDurationLiquidity(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{issuer(1, "Travis County", "TX", dataset.IssuerCounty)},
		[]dataset.BondPurpose{{ID: 1, Category: "Education"}},
		[]dataset.Bond{
			bond("B-LONG", 1, 1, 4.0, 10),
			bond("B-EDGE", 1, 1, 4.0, 6.0), // exactly at the cutoff, excluded
			bond("B-MID", 1, 1, 4.0, 7),
			bond("B-SHORT", 1, 1, 4.0, 5),
		},
		[]dataset.Trade{
			trade(1, "B-LONG", day(2024, 1, 10), 101, 4.5),
			trade(2, "B-MID", day(2024, 3, 5), 99, 4.2),
			trade(3, "B-LONG", day(2024, 3, 5), 98, 4.6),
			trade(4, "B-EDGE", day(2024, 4, 1), 100, 4.0),
			trade(5, "B-SHORT", day(2024, 4, 2), 100, 3.8),
		},
		nil, nil,
	)

	out, err := LongDurationLiquidity(snap)
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"trade_date", "issuer_name", "bond_id",
		"trade_price_usd", "yield_pct", "duration_years", "purpose_category", "buyer_type"},
		out.Columns)
	// Newest first; the 2024-03-05 tie resolves by greater trade ID.
	assert.Equal(t, []any{"B-LONG", "B-MID", "B-LONG"}, column(t, out, "bond_id"))
	assert.Equal(t, []any{day(2024, 3, 5), day(2024, 3, 5), day(2024, 1, 10)},
		column(t, out, "trade_date"))
}

func TestLongDurationByIssuer(t *testing.T) {
	longDuration := query.NewTable("issuer_name", "duration_years", "trade_price_usd")
	longDuration.Append(query.Row{"issuer_name": "A", "duration_years": 10.0, "trade_price_usd": 100.0})
	longDuration.Append(query.Row{"issuer_name": "B", "duration_years": 8.0, "trade_price_usd": 98.0})
	longDuration.Append(query.Row{"issuer_name": "A", "duration_years": 12.0, "trade_price_usd": 102.0})
	longDuration.Append(query.Row{"issuer_name": "C", "duration_years": 7.0, "trade_price_usd": 99.0})

	out := LongDurationByIssuer(longDuration, 2)

	require.Equal(t, 2, out.Len())
	// A has two trades; B and C tie on one and B wins alphabetically.
	assert.Equal(t, []any{"A", "B"}, column(t, out, "issuer_name"))
	assert.Equal(t, []any{int64(2), int64(1)}, column(t, out, "total_trades"))
	assert.Equal(t, []any{11.0, 8.0}, column(t, out, "avg_duration_years"))
	assert.Equal(t, []any{101.0, 98.0}, column(t, out, "average_trade_price"))
}

func TestUndervaluedBonds(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{issuer(1, "Travis County", "TX", dataset.IssuerCounty)},
		[]dataset.BondPurpose{{ID: 1, Category: "Education"}},
		[]dataset.Bond{
			bond("B1", 1, 1, 4.0, 10),
			bond("B2", 1, 1, 3.5, 5),
			bond("B3", 1, 1, 3.0, 7),
			bond("B4", 1, 1, 3.2, 8),
		},
		[]dataset.Trade{
			// B1: average 100, latest 98, undervalued by 2.
			trade(1, "B1", day(2024, 1, 10), 102, 4.5),
			trade(2, "B1", day(2024, 3, 5), 98, 4.6),
			// B2: single trade, average equals latest, never qualifies.
			trade(3, "B2", day(2024, 2, 1), 100, 4.0),
			// B3: rising price, latest above average, excluded.
			trade(4, "B3", day(2024, 1, 5), 95, 4.1),
			trade(5, "B3", day(2024, 3, 9), 105, 4.0),
			// B4: date tie, the greater trade ID is the latest.
			trade(7, "B4", day(2024, 2, 20), 99, 4.2),
			trade(9, "B4", day(2024, 2, 20), 90, 4.3),
		},
		nil, nil,
	)

	out, err := UndervaluedBonds(snap)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"B4", "B1"}, column(t, out, "bond_id"))
	assert.Equal(t, []any{90.0, 98.0}, column(t, out, "current_price"))
	assert.Equal(t, []any{94.5, 100.0}, column(t, out, "avg_trade_price"))
	assert.Equal(t, []any{4.5, 2.0}, column(t, out, "price_difference"))

	for _, r := range out.Rows {
		current, _ := r.Float("current_price")
		avg, _ := r.Float("avg_trade_price")
		assert.Less(t, current, avg)
	}
}

func TestYieldSpread(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{
			issuer(1, "Travis County", "TX", dataset.IssuerCounty),
			issuer(2, "Los Angeles USD", "CA", dataset.IssuerDistrict),
		},
		[]dataset.BondPurpose{{ID: 1, Category: "Education"}},
		[]dataset.Bond{
			bond("B1", 1, 1, 4.0, 10),
			bond("B2", 2, 1, 3.0, 7),
		},
		[]dataset.Trade{
			trade(1, "B1", day(2024, 3, 10), 101, 4.5),
			trade(2, "B1", day(2024, 3, 15), 100, 3.9),
			trade(3, "B2", day(2024, 3, 12), 98, 4.1),
			trade(4, "B1", day(2024, 4, 1), 102, 5.1),
			trade(8, "B1", day(2024, 4, 2), 101, 5.1), // same spread as trade 4
			trade(9, "B1", day(2021, 1, 5), 80, 6.41),
		},
		nil,
		[]dataset.MacroIndicator{
			macro("TX", day(2024, 3, 1), 4.0, 3.0),
			macro("TX", day(2024, 4, 1), 4.2, 3.1),
			macro("CA", day(2024, 3, 1), 5.0, 3.0),
			macro("TX", day(2021, 1, 1), 6.7, 0.79),
		},
	)

	out, err := YieldSpread(snap)
	require.NoError(t, err)

	require.Equal(t, 6, out.Len())
	// Widest spread first; the 2.0 tie resolves by ascending trade ID.
	assert.Equal(t, []any{int64(9), int64(4), int64(8), int64(1), int64(3), int64(2)},
		column(t, out, "trade_id"))
	assert.Equal(t, []any{5.62, 2.0, 2.0, 1.5, 1.1, 0.9},
		column(t, out, "yield_spread_bps"))

	top := out.Rows[0]
	y, _ := top.Float("bond_yield")
	r, _ := top.Float("treasury_rate")
	assert.Equal(t, 6.41, y)
	assert.Equal(t, 0.79, r)
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	snap := dataset.NewSnapshot(nil, nil, nil, nil, nil, nil)
	registry := NewRegistry()

	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			def, err := registry.Get(name)
			require.NoError(t, err)
			out, err := def.Compute(snap)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, 0, out.Len())
			assert.NotEmpty(t, out.Columns)
		})
	}
}

func TestMetrics_Deterministic(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]dataset.Issuer{
			issuer(1, "Travis County", "TX", dataset.IssuerCounty),
			issuer(2, "Los Angeles USD", "CA", dataset.IssuerDistrict),
			issuer(3, "City of Miami", "FL", dataset.IssuerCity),
		},
		[]dataset.BondPurpose{
			{ID: 1, Category: "Education"},
			{ID: 2, Category: "Housing"},
		},
		[]dataset.Bond{
			bond("B1", 1, 1, 4.0, 10),
			bond("B2", 1, 2, 3.5, 5),
			bond("B3", 2, 1, 3.0, 7),
			bond("B4", 3, 2, 4.5, 12),
		},
		[]dataset.Trade{
			trade(1, "B1", day(2024, 3, 10), 101, 4.5),
			trade(2, "B1", day(2024, 5, 20), 99, 4.7),
			trade(3, "B2", day(2024, 3, 15), 100, 3.9),
			trade(4, "B3", day(2024, 4, 1), 102, 5.1),
			trade(5, "B4", day(2024, 4, 9), 97, 4.9),
		},
		[]dataset.CreditRating{
			rating(1, day(2024, 2, 1), dataset.OutlookPositive),
			rating(2, day(2024, 7, 1), dataset.OutlookNegative),
			rating(3, day(2023, 3, 1), dataset.OutlookStable),
		},
		[]dataset.MacroIndicator{
			macro("TX", day(2024, 3, 1), 4.0, 3.0),
			macro("TX", day(2024, 5, 1), 4.1, 3.2),
			macro("CA", day(2024, 4, 1), 5.0, 3.1),
			macro("FL", day(2024, 4, 1), 3.5, 3.0),
		},
	)

	registry := NewRegistry()
	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			def, err := registry.Get(name)
			require.NoError(t, err)
			first, err := def.Compute(snap)
			require.NoError(t, err)
			second, err := def.Compute(snap)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

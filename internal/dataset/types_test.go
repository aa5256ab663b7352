package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIssuerType(t *testing.T) {
	for _, valid := range []string{"City", "County", "State", "Authority", "District"} {
		_, ok := ParseIssuerType(valid)
		assert.True(t, ok, valid)
	}
	for _, invalid := range []string{"", "city", "Township", "COUNTY"} {
		_, ok := ParseIssuerType(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestOutlook(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		score float64
	}{
		{"Positive", true, 100},
		{"Negative", true, -100},
		{"Stable", true, 0},
		{"Watchlist", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		o, ok := ParseOutlook(tt.raw)
		assert.Equal(t, tt.valid, ok, tt.raw)
		if ok {
			assert.Equal(t, tt.score, o.SentimentValue(), tt.raw)
		}
	}
}

func TestEntityValidation(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, Issuer{ID: 1, Name: "Travis County", StateCode: "TX", Type: IssuerCounty}.IsValid())
	assert.False(t, Issuer{ID: 1, Name: "", StateCode: "TX", Type: IssuerCounty}.IsValid())
	assert.False(t, Issuer{ID: 1, Name: "X", StateCode: "Texas", Type: IssuerCounty}.IsValid())
	assert.False(t, Issuer{ID: 1, Name: "X", StateCode: "TX", Type: "Township"}.IsValid())

	assert.True(t, Bond{ID: "B1", CouponRatePct: 4, DurationYears: 10}.IsValid())
	assert.False(t, Bond{ID: "", CouponRatePct: 4, DurationYears: 10}.IsValid())
	assert.False(t, Bond{ID: "B1", CouponRatePct: -1, DurationYears: 10}.IsValid())

	assert.True(t, Trade{BondID: "B1", Date: day, PriceUSD: 100}.IsValid())
	assert.False(t, Trade{BondID: "B1", PriceUSD: 100}.IsValid())
	assert.False(t, Trade{BondID: "B1", Date: day, PriceUSD: 0}.IsValid())

	assert.True(t, CreditRating{Outlook: OutlookStable, Date: day}.IsValid())
	assert.False(t, CreditRating{Outlook: "Watchlist", Date: day}.IsValid())
	assert.False(t, CreditRating{Outlook: OutlookStable}.IsValid())

	assert.True(t, MacroIndicator{StateCode: "TX", Date: day}.IsValid())
	assert.False(t, MacroIndicator{StateCode: "", Date: day}.IsValid())
}

func TestSnapshot(t *testing.T) {
	a := NewSnapshot(nil, nil, nil, nil, nil, nil)
	b := NewSnapshot(nil, nil, nil, nil, nil, nil)

	assert.True(t, a.Empty())
	assert.NotEmpty(t, a.Version())
	// Identical contents still get distinct versions.
	assert.NotEqual(t, a.Version(), b.Version())
	assert.False(t, a.TakenAt().IsZero())

	snap := NewSnapshot(
		[]Issuer{{ID: 1, Name: "X", StateCode: "TX", Type: IssuerCity}},
		nil, nil,
		[]Trade{{ID: 1, BondID: "B1", Date: time.Now(), PriceUSD: 100}},
		nil, nil,
	)
	assert.False(t, snap.Empty())
	counts := snap.Counts()
	assert.Equal(t, 1, counts["issuers"])
	assert.Equal(t, 1, counts["trades"])
	assert.Equal(t, 0, counts["bonds"])
}

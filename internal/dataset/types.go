package dataset

import (
	"time"
)

// IssuerType classifies the kind of government entity behind an issuer.
type IssuerType string

const (
	IssuerCity      IssuerType = "City"
	IssuerCounty    IssuerType = "County"
	IssuerState     IssuerType = "State"
	IssuerAuthority IssuerType = "Authority"
	IssuerDistrict  IssuerType = "District"
)

// ParseIssuerType validates a raw issuer type value. Unknown values are
// rejected so the caller can exclude the row and continue.
func ParseIssuerType(s string) (IssuerType, bool) {
	switch IssuerType(s) {
	case IssuerCity, IssuerCounty, IssuerState, IssuerAuthority, IssuerDistrict:
		return IssuerType(s), true
	default:
		return "", false
	}
}

// Outlook is the credit-rating sentiment category.
type Outlook string

const (
	OutlookPositive Outlook = "Positive"
	OutlookNegative Outlook = "Negative"
	OutlookStable   Outlook = "Stable"
)

// ParseOutlook validates a raw outlook value.
func ParseOutlook(s string) (Outlook, bool) {
	switch Outlook(s) {
	case OutlookPositive, OutlookNegative, OutlookStable:
		return Outlook(s), true
	default:
		return "", false
	}
}

// SentimentValue maps an outlook to its numeric sentiment score:
// +100 for Positive, -100 for Negative, 0 for Stable.
func (o Outlook) SentimentValue() float64 {
	switch o {
	case OutlookPositive:
		return 100
	case OutlookNegative:
		return -100
	default:
		return 0
	}
}

// Issuer is a municipal entity that issues bonds.
type Issuer struct {
	ID        int64      `json:"issuer_id"`
	Name      string     `json:"issuer_name"`
	StateCode string     `json:"state_code"` // 2-letter state code
	Type      IssuerType `json:"issuer_type"`
}

// IsValid reports whether the issuer row is usable for analytics.
// Rows failing this are excluded, never fatal.
func (i Issuer) IsValid() bool {
	_, ok := ParseIssuerType(string(i.Type))
	return i.Name != "" && len(i.StateCode) == 2 && ok
}

// BondPurpose categorizes what a bond finances (Education, Housing, ...).
type BondPurpose struct {
	ID       int64  `json:"purpose_id"`
	Category string `json:"purpose_category"`
}

// IsValid reports whether the purpose row is usable.
func (p BondPurpose) IsValid() bool {
	return p.Category != ""
}

// Bond is a single municipal bond issue. Every bond belongs to exactly
// one issuer and one purpose; references are by key, resolved at query
// time with inner-join semantics.
type Bond struct {
	ID            string    `json:"bond_id"`
	IssuerID      int64     `json:"issuer_id"`
	PurposeID     int64     `json:"purpose_id"`
	CouponRatePct float64   `json:"coupon_rate_pct"`
	FaceValueUSD  float64   `json:"face_value_usd"`
	DurationYears float64   `json:"duration_years"`
	IssueDate     time.Time `json:"issue_date"`
}

// IsValid reports whether the bond row is usable.
func (b Bond) IsValid() bool {
	return b.ID != "" && b.CouponRatePct >= 0 && b.DurationYears >= 0
}

// Trade is one secondary-market transaction in a bond. Prices are
// quoted per 100 of face value.
type Trade struct {
	ID            int64     `json:"trade_id"`
	BondID        string    `json:"bond_id"`
	Date          time.Time `json:"trade_date"`
	PriceUSD      float64   `json:"trade_price_usd"`
	YieldPct      float64   `json:"yield_pct"`
	BuyerType     string    `json:"buyer_type"`
}

// IsValid reports whether the trade row is usable.
func (t Trade) IsValid() bool {
	return t.BondID != "" && !t.Date.IsZero() && t.PriceUSD > 0
}

// CreditRating is one agency rating action on a bond.
type CreditRating struct {
	ID      int64     `json:"rating_id"`
	BondID  string    `json:"bond_id"`
	Date    time.Time `json:"rating_date"`
	Outlook Outlook   `json:"outlook"`
	Agency  string    `json:"rating_agency_name"`
}

// IsValid reports whether the rating row is usable. A rating with an
// outlook outside the defined enumeration is excluded per the
// invalid-enum policy.
func (r CreditRating) IsValid() bool {
	_, ok := ParseOutlook(string(r.Outlook))
	return ok && !r.Date.IsZero()
}

// MacroIndicator is a monthly state-level economic record. It joins to
// issuers by state code plus calendar month, not by foreign key.
type MacroIndicator struct {
	StateCode           string    `json:"state_code"`
	Date                time.Time `json:"date"`
	UnemploymentRatePct float64   `json:"unemployment_rate_pct"`
	Treasury10YrRatePct float64   `json:"treasury_10yr_rate_pct"`
	Treasury20YrRatePct float64   `json:"treasury_20yr_rate_pct"`
	VIXIndex            float64   `json:"vix_index_num"`
}

// IsValid reports whether the macro row is usable for month joins.
func (m MacroIndicator) IsValid() bool {
	return len(m.StateCode) == 2 && !m.Date.IsZero()
}

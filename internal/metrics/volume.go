package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// highVolumeMinBonds is the post-aggregation threshold for a
// state/issuer-type group to count as high-volume.
const highVolumeMinBonds = 10

// IssuanceVolumeByState counts bonds per (state, issuer type) group,
// keeping only groups that issued more than highVolumeMinBonds bonds.
// The filter runs after aggregation, never before. The mean coupon
// rate per group rides along for the volume-versus-rate view.
func IssuanceVolumeByState(s *dataset.Snapshot) (*query.Table, error) {
	joined := query.InnerJoin(bondFrame(s), issuerFrame(s),
		query.ColumnKey("issuer_id"), query.ColumnKey("issuer_id"))

	grouped := query.GroupBy(joined,
		[]string{"state_code", "issuer_type"},
		[]query.Aggregation{
			{Reducer: query.Count, As: "total_bonds_issued"},
			{Column: "coupon_rate_pct", Reducer: query.Mean, As: "avg_coupon_rate"},
		})

	out := query.Filter(grouped, func(r query.Row) bool {
		n, _ := r.Float("total_bonds_issued")
		return n > highVolumeMinBonds
	})

	query.SortFloatDesc(out, "total_bonds_issued")
	return query.RoundColumns(out, 3, "avg_coupon_rate"), nil
}

// VolumeByState rolls an issuance-volume table up to one row per
// state, summing the group bond counts, largest states first.
func VolumeByState(issuanceVolume *query.Table) *query.Table {
	out := query.GroupBy(issuanceVolume,
		[]string{"state_code"},
		[]query.Aggregation{
			{Column: "total_bonds_issued", Reducer: query.Sum, As: "total_bonds_issued"},
		})
	return query.SortFloatDesc(out, "total_bonds_issued")
}

// VolumeSummary is the headline statistics block over the high-volume
// issuer groups.
type VolumeSummary struct {
	Groups        int     `json:"groups"`
	MaxBonds      int64   `json:"max_bonds_issued"`
	MaxStateCode  string  `json:"max_state_code"`
	MaxIssuerType string  `json:"max_issuer_type"`
	AvgCouponRate float64 `json:"avg_coupon_rate"`
}

// SummarizeVolume derives the headline statistics from an
// issuance-volume table: group count, the single largest group and the
// mean coupon rate across groups.
func SummarizeVolume(issuanceVolume *query.Table) VolumeSummary {
	sum := VolumeSummary{Groups: issuanceVolume.Len()}
	var couponTotal float64
	for _, r := range issuanceVolume.Rows {
		n, _ := r.Float("total_bonds_issued")
		if int64(n) > sum.MaxBonds {
			sum.MaxBonds = int64(n)
			sum.MaxStateCode, _ = r.String("state_code")
			sum.MaxIssuerType, _ = r.String("issuer_type")
		}
		c, _ := r.Float("avg_coupon_rate")
		couponTotal += c
	}
	if sum.Groups > 0 {
		sum.AvgCouponRate = query.Round(couponTotal/float64(sum.Groups), 3)
	}
	return sum
}

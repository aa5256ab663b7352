package dataset

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable view of the six entity sets at a point in
// time. Metric computations read from a Snapshot and never mutate it,
// so they can run concurrently without coordination. The version
// identity keys memoized results; two snapshots built from the same
// rows still get distinct versions, which errs on the side of
// recomputation rather than stale reuse.
type Snapshot struct {
	version string
	takenAt time.Time

	Issuers  []Issuer
	Purposes []BondPurpose
	Bonds    []Bond
	Trades   []Trade
	Ratings  []CreditRating
	Macro    []MacroIndicator
}

// NewSnapshot assembles a snapshot from entity slices. The slices are
// taken over by the snapshot; callers must not modify them afterwards.
func NewSnapshot(issuers []Issuer, purposes []BondPurpose, bonds []Bond, trades []Trade, ratings []CreditRating, macro []MacroIndicator) *Snapshot {
	return &Snapshot{
		version:  uuid.New().String(),
		takenAt:  time.Now().UTC(),
		Issuers:  issuers,
		Purposes: purposes,
		Bonds:    bonds,
		Trades:   trades,
		Ratings:  ratings,
		Macro:    macro,
	}
}

// Version returns the snapshot's unique version identity.
func (s *Snapshot) Version() string {
	return s.version
}

// TakenAt returns when the snapshot was assembled.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Empty reports whether the snapshot holds no rows at all.
func (s *Snapshot) Empty() bool {
	return len(s.Issuers) == 0 && len(s.Purposes) == 0 && len(s.Bonds) == 0 &&
		len(s.Trades) == 0 && len(s.Ratings) == 0 && len(s.Macro) == 0
}

// Counts returns per-entity row counts, used for logging and the
// health endpoint.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"issuers":        len(s.Issuers),
		"bond_purposes":  len(s.Purposes),
		"bonds":          len(s.Bonds),
		"trades":         len(s.Trades),
		"credit_ratings": len(s.Ratings),
		"macro":          len(s.Macro),
	}
}

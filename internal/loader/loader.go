// Package loader reads the six entity CSV files into a
// dataset.Snapshot. It is the upstream data-source collaborator the
// command binaries need; the analytics core never touches it. Bad rows
// are logged and skipped so one malformed record never blocks the rest
// of the load.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"munibond/internal/dataset"
)

// Canonical entity file names within the data directory.
const (
	IssuersFile  = "issuers.csv"
	PurposesFile = "bond_purposes.csv"
	BondsFile    = "bonds.csv"
	TradesFile   = "trades.csv"
	RatingsFile  = "credit_ratings.csv"
	MacroFile    = "economic_indicators.csv"
)

const dateLayout = "2006-01-02"

// Loader reads entity CSVs from a directory.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// New creates a loader over a data directory.
func New(dir string, logger *slog.Logger) *Loader {
	return &Loader{
		dir:    dir,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// Load reads all six entity files and assembles a snapshot. A missing
// file yields an empty entity set, not an error; every metric degrades
// to an empty result on empty input.
func (l *Loader) Load() (*dataset.Snapshot, error) {
	issuers, err := readAll(l, IssuersFile, parseIssuer)
	if err != nil {
		return nil, fmt.Errorf("load issuers: %w", err)
	}
	purposes, err := readAll(l, PurposesFile, parsePurpose)
	if err != nil {
		return nil, fmt.Errorf("load bond purposes: %w", err)
	}
	bonds, err := readAll(l, BondsFile, parseBond)
	if err != nil {
		return nil, fmt.Errorf("load bonds: %w", err)
	}
	trades, err := readAll(l, TradesFile, parseTrade)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	ratings, err := readAll(l, RatingsFile, parseRating)
	if err != nil {
		return nil, fmt.Errorf("load credit ratings: %w", err)
	}
	macro, err := readAll(l, MacroFile, parseMacro)
	if err != nil {
		return nil, fmt.Errorf("load economic indicators: %w", err)
	}

	snap := dataset.NewSnapshot(issuers, purposes, bonds, trades, ratings, macro)
	l.logger.Info("dataset loaded",
		slog.String("dir", l.dir),
		slog.Any("counts", snap.Counts()),
	)
	return snap, nil
}

// record is one CSV row with header-indexed access.
type record struct {
	header map[string]int
	fields []string
}

func (r record) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) float(col string) (float64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func (r record) int(col string) (int64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func (r record) date(col string) (time.Time, error) {
	s := r.str(col)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// readAll streams one CSV file through a row parser, skipping rows
// that fail to parse.
func readAll[T any](l *Loader, name string, parse func(record) (T, error)) ([]T, error) {
	path := filepath.Join(l.dir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("entity file missing, continuing with empty set",
				slog.String("file", name))
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	// Strip a UTF-8 BOM if the file came out of Excel.
	if len(headerRow) > 0 {
		headerRow[0] = strings.TrimPrefix(headerRow[0], "\ufeff")
	}
	header := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var out []T
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.Warn("skipping malformed CSV line",
				slog.String("file", name),
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		row, err := parse(record{header: header, fields: fields})
		if err != nil {
			l.logger.Warn("skipping unparsable row",
				slog.String("file", name),
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func parseIssuer(r record) (dataset.Issuer, error) {
	id, err := r.int("issuer_id")
	if err != nil {
		return dataset.Issuer{}, fmt.Errorf("issuer_id: %w", err)
	}
	return dataset.Issuer{
		ID:        id,
		Name:      r.str("issuer_name"),
		StateCode: firstNonEmpty(r.str("state_code"), r.str("state")),
		Type:      dataset.IssuerType(r.str("issuer_type")),
	}, nil
}

func parsePurpose(r record) (dataset.BondPurpose, error) {
	id, err := r.int("purpose_id")
	if err != nil {
		return dataset.BondPurpose{}, fmt.Errorf("purpose_id: %w", err)
	}
	return dataset.BondPurpose{
		ID:       id,
		Category: r.str("purpose_category"),
	}, nil
}

func parseBond(r record) (dataset.Bond, error) {
	issuerID, err := r.int("issuer_id")
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("issuer_id: %w", err)
	}
	purposeID, err := r.int("purpose_id")
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("purpose_id: %w", err)
	}
	coupon, err := r.float(firstPresent(r, "coupon_rate_pct", "coupon_rate"))
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("coupon_rate: %w", err)
	}
	face, err := r.float(firstPresent(r, "face_value_usd", "face_value"))
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("face_value: %w", err)
	}
	duration, err := r.float(firstPresent(r, "duration_years", "duration"))
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("duration: %w", err)
	}
	issued, err := r.date("issue_date")
	if err != nil {
		return dataset.Bond{}, fmt.Errorf("issue_date: %w", err)
	}
	return dataset.Bond{
		ID:            r.str("bond_id"),
		IssuerID:      issuerID,
		PurposeID:     purposeID,
		CouponRatePct: coupon,
		FaceValueUSD:  face,
		DurationYears: duration,
		IssueDate:     issued,
	}, nil
}

func parseTrade(r record) (dataset.Trade, error) {
	id, err := r.int("trade_id")
	if err != nil {
		return dataset.Trade{}, fmt.Errorf("trade_id: %w", err)
	}
	date, err := r.date("trade_date")
	if err != nil {
		return dataset.Trade{}, fmt.Errorf("trade_date: %w", err)
	}
	price, err := r.float(firstPresent(r, "trade_price_usd", "trade_price"))
	if err != nil {
		return dataset.Trade{}, fmt.Errorf("trade_price: %w", err)
	}
	yield, err := r.float(firstPresent(r, "yield_pct", "yield"))
	if err != nil {
		return dataset.Trade{}, fmt.Errorf("yield: %w", err)
	}
	return dataset.Trade{
		ID:        id,
		BondID:    r.str("bond_id"),
		Date:      date,
		PriceUSD:  price,
		YieldPct:  yield,
		BuyerType: r.str("buyer_type"),
	}, nil
}

func parseRating(r record) (dataset.CreditRating, error) {
	id, err := r.int("rating_id")
	if err != nil {
		return dataset.CreditRating{}, fmt.Errorf("rating_id: %w", err)
	}
	date, err := r.date("rating_date")
	if err != nil {
		return dataset.CreditRating{}, fmt.Errorf("rating_date: %w", err)
	}
	return dataset.CreditRating{
		ID:      id,
		BondID:  r.str("bond_id"),
		Date:    date,
		Outlook: dataset.Outlook(r.str("outlook")),
		Agency:  firstNonEmpty(r.str("rating_agency_name"), r.str("rating_agency")),
	}, nil
}

func parseMacro(r record) (dataset.MacroIndicator, error) {
	date, err := r.date("date")
	if err != nil {
		return dataset.MacroIndicator{}, fmt.Errorf("date: %w", err)
	}
	unemployment, err := r.float(firstPresent(r, "unemployment_rate_pct", "unemployment_rate"))
	if err != nil {
		return dataset.MacroIndicator{}, fmt.Errorf("unemployment_rate: %w", err)
	}
	treasury10, err := r.float(firstPresent(r, "treasury_10yr_rate_pct", "treasury_10yr"))
	if err != nil {
		return dataset.MacroIndicator{}, fmt.Errorf("treasury_10yr: %w", err)
	}
	treasury20, err := r.float(firstPresent(r, "treasury_20yr_rate_pct", "treasury_20yr"))
	if err != nil {
		return dataset.MacroIndicator{}, fmt.Errorf("treasury_20yr: %w", err)
	}
	vix, err := r.float(firstPresent(r, "vix_index_num", "vix_index"))
	if err != nil {
		return dataset.MacroIndicator{}, fmt.Errorf("vix_index: %w", err)
	}
	return dataset.MacroIndicator{
		StateCode:           firstNonEmpty(r.str("state_code"), r.str("state")),
		Date:                date,
		UnemploymentRatePct: unemployment,
		Treasury10YrRatePct: treasury10,
		Treasury20YrRatePct: treasury20,
		VIXIndex:            vix,
	}, nil
}

// firstPresent returns the first column name that exists in the
// header, letting the loader accept both raw CSV headers and the
// renamed schema headers.
func firstPresent(r record, names ...string) string {
	for _, n := range names {
		if _, ok := r.header[n]; ok {
			return n
		}
	}
	return names[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"SheetSentinel/internal/model"
)

// Options controls cleaning.
type Options struct {
	// MinRows is the smallest series accepted, usually the longest indicator
	// warm-up window.
	MinRows int
	// RejectDuplicates turns duplicate timestamps into ErrUnorderedTimestamp
	// instead of keeping the last occurrence.
	RejectDuplicates bool
}

// Normalize validates and coerces a raw table into a clean, chronologically
// ordered Series. Rows with an unparseable timestamp or a missing,
// non-numeric or non-positive close are dropped.
func Normalize(table *model.Table, opts Options) (*model.Series, error) {
	if table == nil || len(table.Header) == 0 {
		return nil, fmt.Errorf("%w: table has no header", ErrMalformedInput)
	}
	cols := resolveColumns(table.Header)
	if cols.time < 0 {
		return nil, fmt.Errorf("%w: no timestamp column (expected one of %s)", ErrMalformedInput, strings.Join(timeColumns, ", "))
	}
	if cols.close < 0 {
		return nil, fmt.Errorf("%w: no close price column (expected one of %s)", ErrMalformedInput, strings.Join(closeColumns, ", "))
	}

	points := make([]model.PricePoint, 0, len(table.Rows))
	for _, row := range table.Rows {
		ts, ok := parseTime(cellAt(row, cols.time))
		if !ok {
			continue
		}
		c, ok := parseNumber(cellAt(row, cols.close))
		if !ok || c <= 0 {
			continue
		}
		points = append(points, model.PricePoint{
			Time:   ts,
			Close:  c,
			Open:   optional(row, cols.open),
			High:   optional(row, cols.high),
			Low:    optional(row, cols.low),
			Volume: optional(row, cols.volume),
		})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	// Equal timestamps are adjacent and still in input order, so overwriting
	// keeps the last occurrence.
	clean := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if n := len(clean); n > 0 && p.Time.Equal(clean[n-1].Time) {
			if opts.RejectDuplicates {
				return nil, fmt.Errorf("%w: duplicate timestamp %s", ErrUnorderedTimestamp, p.Time.Format("2006-01-02 15:04:05"))
			}
			clean[n-1] = p
			continue
		}
		clean = append(clean, p)
	}
	for i := 1; i < len(clean); i++ {
		if !clean[i].Time.After(clean[i-1].Time) {
			return nil, fmt.Errorf("%w: row %d at %s", ErrUnorderedTimestamp, i, clean[i].Time)
		}
	}

	minRows := opts.MinRows
	if minRows < 1 {
		minRows = 1
	}
	if len(clean) < minRows {
		return nil, fmt.Errorf("%w: %d rows after cleaning, need %d", ErrEmptySeries, len(clean), minRows)
	}
	return model.NewSeries(clean), nil
}

func optional(row []string, idx int) model.Value {
	if v, ok := parseNumber(cellAt(row, idx)); ok {
		return model.Some(v)
	}
	return model.None()
}

package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"SheetSentinel/internal/model"
)

// Row is one timestamped line of a table.
type Row struct {
	Time   time.Time     `json:"time"`
	Values []model.Value `json:"values"`
}

// Table is a column-labelled numeric table; every row has one value per column.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// SignalRecord is the flat form of a Signal.
type SignalRecord struct {
	Kind      model.SignalKind `json:"kind"`
	Strength  float64          `json:"strength"`
	Rationale string           `json:"rationale"`
	Rules     []string         `json:"rules"`
}

// Export is the transport form of a Report: two aligned tables and the signal.
type Export struct {
	Prices     Table        `json:"prices"`
	Indicators Table        `json:"indicators"`
	Signal     SignalRecord `json:"signal"`
}

var priceColumns = []string{"open", "high", "low", "close", "volume"}

// NewExport flattens a report.
func NewExport(r *model.Report) Export {
	names := r.Indicators.Names()
	lines := make([]model.Line, len(names))
	for i, name := range names {
		lines[i], _ = r.Indicators.Get(name)
	}

	n := r.Series.Len()
	prices := Table{Columns: priceColumns, Rows: make([]Row, n)}
	indicators := Table{Columns: names, Rows: make([]Row, n)}
	for i := 0; i < n; i++ {
		p := r.Series.At(i)
		prices.Rows[i] = Row{
			Time:   p.Time,
			Values: []model.Value{p.Open, p.High, p.Low, model.Some(p.Close), p.Volume},
		}
		values := make([]model.Value, len(lines))
		for j, l := range lines {
			values[j] = l[i]
		}
		indicators.Rows[i] = Row{Time: p.Time, Values: values}
	}

	rules := r.Signal.Rules
	if rules == nil {
		rules = []string{}
	}
	return Export{
		Prices:     prices,
		Indicators: indicators,
		Signal: SignalRecord{
			Kind:      r.Signal.Kind,
			Strength:  r.Signal.Strength,
			Rationale: r.Signal.Rationale,
			Rules:     rules,
		},
	}
}

// WriteJSON encodes the export as indented JSON.
func (e Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteCSV writes prices and indicators side by side, one row per timestamp.
// Undefined values are left blank.
func (e Export) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"time"}, e.Prices.Columns...)
	header = append(header, e.Indicators.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, pr := range e.Prices.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, pr.Time.Format(time.RFC3339))
		for _, v := range pr.Values {
			rec = append(rec, v.String())
		}
		for _, v := range e.Indicators.Rows[i].Values {
			rec = append(rec, v.String())
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

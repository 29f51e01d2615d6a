package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"SheetSentinel/internal/model"
)

func fixture(n int) (*model.Series, model.IndicatorSet) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, n)
	line := make(model.Line, n)
	for i := range points {
		points[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Close: float64(100 + i), Volume: model.Some(1000)}
		if i > 0 {
			line[i] = model.Some(float64(i))
		}
	}
	set := model.NewIndicatorSet()
	set.Set("sma_2", line)
	return model.NewSeries(points), set
}

func TestAssemble(t *testing.T) {
	series, set := fixture(3)
	sig := model.Signal{Kind: model.SignalHold, Rationale: "no strong signal"}
	r, err := Assemble(series, set, sig)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if r.Series != series || r.Signal.Kind != model.SignalHold {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestAssemble_Misaligned(t *testing.T) {
	series, set := fixture(5)
	for _, n := range []int{4, 6} {
		set.Set("rsi_14", make(model.Line, n))
		if _, err := Assemble(series, set, model.Signal{}); !errors.Is(err, ErrAlignment) {
			t.Errorf("length %d: expected ErrAlignment, got %v", n, err)
		}
	}
	if _, err := Assemble(nil, set, model.Signal{}); !errors.Is(err, ErrAlignment) {
		t.Errorf("nil series: expected ErrAlignment, got %v", err)
	}
}

func TestExport_JSON(t *testing.T) {
	series, set := fixture(2)
	r, err := Assemble(series, set, model.Signal{Kind: model.SignalBuy, Strength: 0.4, Rationale: "oversold", Rules: []string{"oversold"}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	var buf bytes.Buffer
	if err := NewExport(r).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got struct {
		Prices struct {
			Columns []string
			Rows    []struct{ Values []*float64 }
		}
		Indicators struct {
			Columns []string
			Rows    []struct{ Values []*float64 }
		}
		Signal map[string]any
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Indicators.Rows) != 2 || got.Indicators.Columns[0] != "sma_2" {
		t.Fatalf("unexpected indicators table: %+v", got.Indicators)
	}
	if got.Indicators.Rows[0].Values[0] != nil {
		t.Error("undefined indicator value should encode as null")
	}
	if v := got.Prices.Rows[1].Values[3]; v == nil || *v != 101 {
		t.Errorf("close[1] = %v, want 101", v)
	}
	if got.Prices.Rows[0].Values[0] != nil {
		t.Error("missing open should encode as null")
	}
	if got.Signal["kind"] != "BUY" || got.Signal["rationale"] != "oversold" {
		t.Errorf("unexpected signal record %v", got.Signal)
	}
}

func TestExport_CSV(t *testing.T) {
	series, set := fixture(2)
	r, err := Assemble(series, set, model.Signal{Kind: model.SignalHold})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	var buf bytes.Buffer
	if err := NewExport(r).WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"time", "open", "high", "low", "close", "volume", "sma_2"},
		{"2024-03-01T00:00:00Z", "", "", "", "100", "1000", ""},
		{"2024-03-02T00:00:00Z", "", "", "", "101", "1000", "1"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record[%d][%d] = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

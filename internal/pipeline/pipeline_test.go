package pipeline

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"SheetSentinel/internal/model"
	"SheetSentinel/internal/normalizer"
	"SheetSentinel/internal/strategy"
)

func makeTable(closes []float64) *model.Table {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	t := &model.Table{Header: []string{"Date", "Close", "Volume"}}
	for i, c := range closes {
		t.Rows = append(t.Rows, []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			fmt.Sprintf("%.4f", c),
			"1000",
		})
	}
	return t
}

func wave(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 8*math.Sin(float64(i)/6)
	}
	return closes
}

func TestRun_FullReport(t *testing.T) {
	r, err := Run(makeTable(wave(120)), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Series.Len() != 120 {
		t.Errorf("series length %d, want 120", r.Series.Len())
	}
	for _, name := range r.Indicators.Names() {
		line, _ := r.Indicators.Get(name)
		if len(line) != r.Series.Len() {
			t.Errorf("%s not aligned", name)
		}
		if !line.Last().Defined {
			t.Errorf("%s undefined at the latest index", name)
		}
	}
	switch r.Signal.Kind {
	case model.SignalBuy, model.SignalSell, model.SignalHold:
	default:
		t.Errorf("unexpected kind %q", r.Signal.Kind)
	}
	if r.Signal.Strength < 0 || r.Signal.Strength > 1 {
		t.Errorf("strength %v outside [0,1]", r.Signal.Strength)
	}
}

func TestRun_Idempotent(t *testing.T) {
	table := makeTable(wave(90))
	a, err := Run(table, DefaultOptions())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Run(table, DefaultOptions())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same input produced different reports")
	}
}

func TestRun_RisingMarketIsOverbought(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	r, err := Run(makeTable(closes), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Signal.Kind != model.SignalSell || r.Signal.Rules[0] != "overbought" {
		t.Errorf("got %s %q, want SELL led by overbought", r.Signal.Kind, r.Signal.Rationale)
	}
	if r.Signal.Strength != 1 {
		t.Errorf("strength = %v, want 1", r.Signal.Strength)
	}
}

func TestRun_CustomPeriods(t *testing.T) {
	opts := DefaultOptions()
	opts.Indicators.SMAShort = 5
	opts.Indicators.SMALong = 10
	opts.Indicators.EMA = 5
	opts.Indicators.RSI = 7
	opts.Indicators.BollingerPeriod = 10
	r, err := Run(makeTable(wave(12)), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range []string{"sma_5", "sma_10", "ema_5", "rsi_7"} {
		if _, ok := r.Indicators.Get(name); !ok {
			t.Errorf("missing %s", name)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		table *model.Table
		want  error
	}{
		{"missing close", &model.Table{Header: []string{"date", "open"}}, normalizer.ErrMalformedInput},
		{"too short", makeTable(wave(49)), normalizer.ErrEmptySeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Run(tt.table, DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if r != nil {
				t.Error("no partial report should be returned")
			}
		})
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Signal = strategy.Thresholds{Overbought: 20, Oversold: 80}
	if _, err := Run(makeTable(wave(60)), opts); err == nil {
		t.Error("expected error for inverted thresholds")
	}
	opts = DefaultOptions()
	opts.Indicators.BollingerWidth = math.NaN()
	if _, err := Run(makeTable(wave(60)), opts); err == nil {
		t.Error("expected error for NaN bollinger width")
	}
}

func TestRun_NonFiniteCloseDropped(t *testing.T) {
	table := makeTable(wave(60))
	table.Rows[30][1] = "1e400"

	r, err := Run(table, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Series.Len() != 59 {
		t.Errorf("series length %d, want 59", r.Series.Len())
	}
	for _, name := range r.Indicators.Names() {
		line, _ := r.Indicators.Get(name)
		for i, v := range line {
			if f, ok := v.Get(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				t.Fatalf("%s[%d] = %v", name, i, f)
			}
		}
	}
}

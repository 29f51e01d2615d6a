package collector

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"SheetSentinel/internal/model"
	"SheetSentinel/internal/pipeline"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Table *model.Table
	Err   error
	Price float64 // base price of generated rows when Table is nil
	Rows  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchTable(_ context.Context) (*model.Table, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Table != nil {
		return m.Table, nil
	}
	return GenerateTable(m.Price, m.Rows), nil
}

// GenerateTable builds a daily table of count rows oscillating around basePrice.
func GenerateTable(basePrice float64, count int) *model.Table {
	if basePrice <= 0 {
		basePrice = 100
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t := &model.Table{Header: []string{"date", "open", "high", "low", "close", "volume"}}
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/7))
		t.Rows = append(t.Rows, []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			ftoa(p * 0.999),
			ftoa(p * 1.005),
			ftoa(p * 0.995),
			ftoa(p),
			"1000000",
		})
	}
	return t
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

// Collector fetches the price table and runs the analysis pipeline on it.
type Collector struct {
	Fetcher Fetcher
	Options pipeline.Options
	Log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts pipeline.Options, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Options: opts,
		Log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// FetchError marks failures of the data source as opposed to the analysis.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch table: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// Collect fetches the current table and produces a report.
func (c *Collector) Collect(ctx context.Context) (*model.Report, error) {
	start := time.Now()
	table, err := c.Fetcher.FetchTable(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	c.Log.Debug().Int("rows", len(table.Rows)).Dur("took", time.Since(start)).Msg("table fetched")

	r, err := pipeline.Run(table, c.Options)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	c.Log.Info().
		Str("signal", string(r.Signal.Kind)).
		Float64("strength", r.Signal.Strength).
		Str("rationale", r.Signal.Rationale).
		Int("points", r.Series.Len()).
		Msg("analysis complete")
	return r, nil
}

// Package pipeline wires the analysis core together:
// raw table -> series -> indicators -> signal -> report.
//
// A run is synchronous and shares no state with other runs, so concurrent
// callers simply invoke Run independently.
package pipeline

import (
	"fmt"

	"SheetSentinel/internal/calculator"
	"SheetSentinel/internal/model"
	"SheetSentinel/internal/normalizer"
	"SheetSentinel/internal/report"
	"SheetSentinel/internal/strategy"
)

// Options are the explicit parameters of a run.
type Options struct {
	Indicators       calculator.Params
	Signal           strategy.Thresholds
	RejectDuplicates bool
}

// DefaultOptions returns the conventional indicator periods and RSI levels.
func DefaultOptions() Options {
	return Options{
		Indicators: calculator.DefaultParams(),
		Signal:     strategy.DefaultThresholds(),
	}
}

// Validate checks every parameter group.
func (o Options) Validate() error {
	if err := o.Indicators.Validate(); err != nil {
		return err
	}
	return o.Signal.Validate()
}

// Keys returns the indicator names the signal rules read for these periods.
func (o Options) Keys() strategy.Keys {
	p := o.Indicators
	return strategy.Keys{
		RSI:   p.RSIName(),
		Upper: model.BollingerUpperName,
		Lower: model.BollingerLowerName,
		Short: p.SMAShortName(),
		Long:  p.SMALongName(),
	}
}

// Run executes one analysis. Either a complete report or an error is
// returned, never both.
func Run(table *model.Table, opts Options) (*model.Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	series, err := normalizer.Normalize(table, normalizer.Options{
		MinRows:          opts.Indicators.MinRows(),
		RejectDuplicates: opts.RejectDuplicates,
	})
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	indicators := calculator.Compute(series, opts.Indicators)

	engine := strategy.NewEngine(opts.Keys(), opts.Signal)
	signal, err := engine.Synthesize(indicators, series.Latest().Close)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	r, err := report.Assemble(series, indicators, signal)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return r, nil
}

package report

import (
	"errors"
	"fmt"

	"SheetSentinel/internal/model"
)

// ErrAlignment means an indicator line does not match the series length.
var ErrAlignment = errors.New("indicator not aligned with series")

// Assemble packages one pipeline run. It only checks that every indicator
// line is aligned index-for-index with the series.
func Assemble(series *model.Series, indicators model.IndicatorSet, signal model.Signal) (*model.Report, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: nil series", ErrAlignment)
	}
	for _, name := range indicators.Names() {
		line, _ := indicators.Get(name)
		if len(line) != series.Len() {
			return nil, fmt.Errorf("%w: %s has %d values, series has %d", ErrAlignment, name, len(line), series.Len())
		}
	}
	return &model.Report{
		Series:     series,
		Indicators: indicators,
		Signal:     signal,
	}, nil
}

package model

// Report bundles one pipeline run for the presentation layer.
type Report struct {
	Series     *Series
	Indicators IndicatorSet
	Signal     Signal
}

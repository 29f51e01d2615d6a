package calculator

import "SheetSentinel/internal/model"

// SMA computes the simple moving average over a trailing window of period
// closes. Values are defined from index period-1 onwards.
func SMA(closes []float64, period int) model.Line {
	out := make(model.Line, len(closes))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(closes); i++ {
		out[i] = model.Some(windowMean(closes[i-period+1 : i+1]))
	}
	return out
}

// EMA computes the exponential moving average with smoothing 2/(period+1),
// seeded with the SMA of the first period closes at index period-1.
func EMA(closes []float64, period int) model.Line {
	out := make(model.Line, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	alpha := 2.0 / float64(period+1)
	ema := windowMean(closes[:period])
	out[period-1] = model.Some(ema)
	for i := period; i < len(closes); i++ {
		ema = alpha*closes[i] + (1-alpha)*ema
		out[i] = model.Some(ema)
	}
	return out
}

func windowMean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

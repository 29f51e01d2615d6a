package calculator

import "SheetSentinel/internal/model"

// Returns computes simple period-over-period returns:
// r[i] = (close[i] - close[i-1]) / close[i-1]. r[0] is undefined, as is any
// step whose previous close is zero.
func Returns(closes []float64) model.Line {
	out := make(model.Line, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out[i] = model.Some((closes[i] - prev) / prev)
	}
	return out
}

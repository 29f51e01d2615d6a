package calculator

import "SheetSentinel/internal/model"

// RSI computes the Wilder-smoothed Relative Strength Index. Gains and losses
// are taken from the per-step returns; the first average is a simple mean of
// the first period steps and later ones use avg = (avg*(period-1) + x) / period.
// Values are defined from index period onwards.
//
// A window with losses but no gains yields 0, gains but no losses 100, and a
// flat window 50.
func RSI(closes []float64, period int) model.Line {
	out := make(model.Line, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	returns := Returns(closes)
	p := float64(period)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(returns[i])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= p
	avgLoss /= p
	out[period] = model.Some(rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(returns[i])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = model.Some(rsiValue(avgGain, avgLoss))
	}
	return out
}

// split turns a return into its gain and loss parts. Undefined steps count
// as no movement.
func split(r model.Value) (gain, loss float64) {
	v, ok := r.Get()
	if !ok {
		return 0, 0
	}
	if v > 0 {
		return v, 0
	}
	return 0, -v
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

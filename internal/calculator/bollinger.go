package calculator

import (
	"math"

	"SheetSentinel/internal/model"
)

// Bands holds the three Bollinger lines.
type Bands struct {
	Upper  model.Line
	Middle model.Line
	Lower  model.Line
}

// Bollinger computes Bollinger Bands: the SMA over period closes plus and
// minus width population standard deviations of the same window.
// Values are defined from index period-1 onwards.
func Bollinger(closes []float64, period int, width float64) Bands {
	n := len(closes)
	b := Bands{
		Upper:  make(model.Line, n),
		Middle: make(model.Line, n),
		Lower:  make(model.Line, n),
	}
	if period <= 0 {
		return b
	}
	width = math.Abs(width)
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		mean := windowMean(window)
		sd := populationStdDev(window, mean)
		b.Middle[i] = model.Some(mean)
		b.Upper[i] = model.Some(mean + width*sd)
		b.Lower[i] = model.Some(mean - width*sd)
	}
	return b
}

func populationStdDev(window []float64, mean float64) float64 {
	var variance float64
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(window)))
}

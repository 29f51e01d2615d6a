package calculator

import (
	"fmt"
	"math"
)

// Params holds the indicator periods. The signal rules are tuned for the
// defaults: RSI(14), Bollinger(20, 2) and an SMA(20)/SMA(50) crossover.
// Changing a period changes what the overbought/oversold and crossover rules
// mean, so non-default values should be surfaced to whoever reads the signal.
type Params struct {
	SMAShort        int
	SMALong         int
	EMA             int
	RSI             int
	BollingerPeriod int
	BollingerWidth  float64
	// ExtraRSI adds rsi_<p> lines for other horizons. The signal rules
	// only read the RSI period above.
	ExtraRSI []int
}

// DefaultParams returns the conventional periods.
func DefaultParams() Params {
	return Params{
		SMAShort:        20,
		SMALong:         50,
		EMA:             20,
		RSI:             14,
		BollingerPeriod: 20,
		BollingerWidth:  2.0,
	}
}

// Validate checks that all periods are usable.
func (p Params) Validate() error {
	if p.SMAShort <= 0 || p.SMALong <= 0 || p.EMA <= 0 || p.RSI <= 0 || p.BollingerPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if p.SMAShort >= p.SMALong {
		return fmt.Errorf("sma_short (%d) must be less than sma_long (%d)", p.SMAShort, p.SMALong)
	}
	if math.IsNaN(p.BollingerWidth) || math.IsInf(p.BollingerWidth, 0) || p.BollingerWidth < 0 {
		return fmt.Errorf("bollinger width must be a finite non-negative number")
	}
	for _, n := range p.ExtraRSI {
		if n <= 0 {
			return fmt.Errorf("extra rsi period %d must be positive", n)
		}
	}
	return nil
}

// MinRows is the longest warm-up window: the number of points needed before
// every indicator the rules read has a defined latest value. ExtraRSI lines
// may still be undefined.
func (p Params) MinRows() int {
	n := p.SMAShort
	for _, v := range []int{p.SMALong, p.EMA, p.RSI + 1, p.BollingerPeriod} {
		if v > n {
			n = v
		}
	}
	return n
}

// SMAShortName etc. return the indicator keys produced by Compute.
func (p Params) SMAShortName() string { return fmt.Sprintf("sma_%d", p.SMAShort) }
func (p Params) SMALongName() string  { return fmt.Sprintf("sma_%d", p.SMALong) }
func (p Params) EMAName() string      { return fmt.Sprintf("ema_%d", p.EMA) }
func (p Params) RSIName() string      { return RSIName(p.RSI) }

// RSIName is the key of an RSI line with the given period.
func RSIName(period int) string { return fmt.Sprintf("rsi_%d", period) }

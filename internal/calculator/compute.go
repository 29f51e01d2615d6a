package calculator

import "SheetSentinel/internal/model"

// Compute runs every indicator over the series closes and returns them as a
// set aligned with the series.
func Compute(series *model.Series, p Params) model.IndicatorSet {
	closes := series.Closes()
	set := model.NewIndicatorSet()
	set.Set(model.ReturnsName, Returns(closes))
	set.Set(p.SMAShortName(), SMA(closes, p.SMAShort))
	set.Set(p.SMALongName(), SMA(closes, p.SMALong))
	set.Set(p.EMAName(), EMA(closes, p.EMA))
	set.Set(p.RSIName(), RSI(closes, p.RSI))
	for _, period := range p.ExtraRSI {
		if period != p.RSI {
			set.Set(RSIName(period), RSI(closes, period))
		}
	}

	bands := Bollinger(closes, p.BollingerPeriod, p.BollingerWidth)
	set.Set(model.BollingerUpperName, bands.Upper)
	set.Set(model.BollingerMiddleName, bands.Middle)
	set.Set(model.BollingerLowerName, bands.Lower)
	return set
}

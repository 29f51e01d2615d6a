package strategy

import "SheetSentinel/internal/model"

// snapshot is the latest view of the indicators the rules look at.
type snapshot struct {
	close     float64
	rsi       float64
	upper     float64
	lower     float64
	short     float64
	long      float64
	prevShort model.Value
	prevLong  model.Value
}

// Rule is one entry of the priority table.
type Rule struct {
	Name  string
	Kind  model.SignalKind
	holds func(s snapshot, th Thresholds) bool
}

// Rules is evaluated top to bottom; the first rule that holds decides the
// signal kind. New rules are inserted at the position matching their priority.
var Rules = []Rule{
	{Name: "overbought", Kind: model.SignalSell, holds: func(s snapshot, th Thresholds) bool {
		return s.rsi >= th.Overbought
	}},
	{Name: "oversold", Kind: model.SignalBuy, holds: func(s snapshot, th Thresholds) bool {
		return s.rsi <= th.Oversold
	}},
	{Name: "above upper band", Kind: model.SignalSell, holds: func(s snapshot, _ Thresholds) bool {
		return s.close > s.upper
	}},
	{Name: "below lower band", Kind: model.SignalBuy, holds: func(s snapshot, _ Thresholds) bool {
		return s.close < s.lower
	}},
	{Name: "bullish crossover", Kind: model.SignalBuy, holds: func(s snapshot, _ Thresholds) bool {
		ps, pl, ok := previous(s)
		return ok && ps <= pl && s.short > s.long
	}},
	{Name: "bearish crossover", Kind: model.SignalSell, holds: func(s snapshot, _ Thresholds) bool {
		ps, pl, ok := previous(s)
		return ok && ps >= pl && s.short < s.long
	}},
}

// NoSignal is the rationale when no rule holds.
const NoSignal = "no strong signal"

// previous reports the moving averages one step back; a crossover needs both.
func previous(s snapshot) (short, long float64, ok bool) {
	if !s.prevShort.Defined || !s.prevLong.Defined {
		return 0, 0, false
	}
	return s.prevShort.Float, s.prevLong.Float, true
}

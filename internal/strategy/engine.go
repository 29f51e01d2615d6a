package strategy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"SheetSentinel/internal/model"
)

// ErrInsufficientHistory means a required indicator has no value at the
// latest index.
var ErrInsufficientHistory = errors.New("insufficient history")

// Thresholds are the RSI levels of the overbought/oversold rules.
type Thresholds struct {
	Overbought float64
	Oversold   float64
}

// DefaultThresholds returns the conventional 70/30 levels.
func DefaultThresholds() Thresholds {
	return Thresholds{Overbought: 70, Oversold: 30}
}

// Validate checks that the levels are ordered and inside [0,100].
func (t Thresholds) Validate() error {
	// NaN fails every comparison, so the check is written positively.
	if !(t.Oversold >= 0 && t.Overbought <= 100 && t.Oversold < t.Overbought) {
		return fmt.Errorf("rsi thresholds must satisfy 0 <= oversold < overbought <= 100, got %.1f/%.1f", t.Oversold, t.Overbought)
	}
	return nil
}

// Keys names the indicators the rules read.
type Keys struct {
	RSI   string
	Upper string
	Lower string
	Short string
	Long  string
}

// DefaultKeys matches the default calculator periods.
func DefaultKeys() Keys {
	return Keys{
		RSI:   "rsi_14",
		Upper: model.BollingerUpperName,
		Lower: model.BollingerLowerName,
		Short: "sma_20",
		Long:  "sma_50",
	}
}

// Engine turns the latest indicator values into a Signal.
type Engine struct {
	keys       Keys
	thresholds Thresholds
}

// NewEngine creates an Engine.
func NewEngine(keys Keys, th Thresholds) *Engine {
	return &Engine{keys: keys, thresholds: th}
}

// Synthesize evaluates the rule table with the default keys and thresholds.
func Synthesize(ind model.IndicatorSet, latestClose float64) (model.Signal, error) {
	return NewEngine(DefaultKeys(), DefaultThresholds()).Synthesize(ind, latestClose)
}

// Synthesize evaluates the rule table against the most recent values.
// The first holding rule picks the kind; the rationale lists every rule that
// held so conflicting evidence stays visible.
func (e *Engine) Synthesize(ind model.IndicatorSet, latestClose float64) (model.Signal, error) {
	snap, err := e.snapshot(ind)
	if err != nil {
		return model.Signal{}, err
	}
	snap.close = latestClose

	sig := model.Signal{Kind: model.SignalHold}
	for _, r := range Rules {
		if !r.holds(snap, e.thresholds) {
			continue
		}
		if len(sig.Rules) == 0 {
			sig.Kind = r.Kind
		}
		sig.Rules = append(sig.Rules, r.Name)
	}

	if len(sig.Rules) == 0 {
		sig.Rationale = NoSignal
		return sig, nil
	}
	sig.Strength = math.Min(math.Abs(snap.rsi-50)/50, 1)
	sig.Rationale = strings.Join(sig.Rules, ", ")
	return sig, nil
}

func (e *Engine) snapshot(ind model.IndicatorSet) (snapshot, error) {
	var s snapshot
	latest := func(name string) (float64, error) {
		line, ok := ind.Get(name)
		if !ok {
			return 0, fmt.Errorf("%w: indicator %s not computed", ErrInsufficientHistory, name)
		}
		v, ok := line.Last().Get()
		if !ok {
			return 0, fmt.Errorf("%w: %s has no value at the latest index", ErrInsufficientHistory, name)
		}
		return v, nil
	}

	var err error
	if s.rsi, err = latest(e.keys.RSI); err != nil {
		return s, err
	}
	if s.upper, err = latest(e.keys.Upper); err != nil {
		return s, err
	}
	if s.lower, err = latest(e.keys.Lower); err != nil {
		return s, err
	}
	if s.short, err = latest(e.keys.Short); err != nil {
		return s, err
	}
	if s.long, err = latest(e.keys.Long); err != nil {
		return s, err
	}
	s.prevShort = beforeLast(ind, e.keys.Short)
	s.prevLong = beforeLast(ind, e.keys.Long)
	return s, nil
}

func beforeLast(ind model.IndicatorSet, name string) model.Value {
	line, _ := ind.Get(name)
	if len(line) < 2 {
		return model.None()
	}
	return line[len(line)-2]
}

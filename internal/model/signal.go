package model

// SignalKind is the recommendation emitted by the strategy engine.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
	SignalHold SignalKind = "HOLD"
)

// Signal is the final output of the strategy engine.
type Signal struct {
	Kind      SignalKind
	Strength  float64 // 0.0 ~ 1.0
	Rationale string
	Rules     []string // every rule whose condition held, in priority order
}

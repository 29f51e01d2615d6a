package model

import "time"

// PricePoint is one observation of the price series. Only Close is required.
type PricePoint struct {
	Time   time.Time
	Open   Value
	High   Value
	Low    Value
	Close  float64
	Volume Value
}

// Series is a chronologically ordered, immutable sequence of price points.
type Series struct {
	points []PricePoint
}

// NewSeries copies points into a new Series. Callers are expected to pass
// points already sorted by time; the normalizer is the only producer.
func NewSeries(points []PricePoint) *Series {
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return &Series{points: cp}
}

func (s *Series) Len() int { return len(s.points) }

// At returns the i-th point.
func (s *Series) At(i int) PricePoint { return s.points[i] }

// Latest returns the most recent point. It panics on an empty series.
func (s *Series) Latest() PricePoint { return s.points[len(s.points)-1] }

// Points returns a copy of the underlying points.
func (s *Series) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Closes extracts the close prices in order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

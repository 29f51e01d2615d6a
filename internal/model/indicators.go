package model

// Line is one indicator sequence, aligned index-for-index with a Series.
type Line []Value

// Last returns the value at the final index, undefined for an empty line.
func (l Line) Last() Value {
	if len(l) == 0 {
		return None()
	}
	return l[len(l)-1]
}

// FirstDefined returns the index of the first defined value, or -1.
func (l Line) FirstDefined() int {
	for i, v := range l {
		if v.Defined {
			return i
		}
	}
	return -1
}

// Indicator names used by the calculator and the signal engine.
const (
	ReturnsName         = "returns"
	BollingerUpperName  = "bollinger_upper"
	BollingerMiddleName = "bollinger_middle"
	BollingerLowerName  = "bollinger_lower"
)

// IndicatorSet maps indicator names to lines, remembering insertion order so
// exports and charts are stable between runs.
type IndicatorSet struct {
	names []string
	lines map[string]Line
}

// NewIndicatorSet returns an empty set.
func NewIndicatorSet() IndicatorSet {
	return IndicatorSet{lines: make(map[string]Line)}
}

// Set adds or replaces a line. Replacing keeps the original position.
func (s *IndicatorSet) Set(name string, line Line) {
	if s.lines == nil {
		s.lines = make(map[string]Line)
	}
	if _, ok := s.lines[name]; !ok {
		s.names = append(s.names, name)
	}
	s.lines[name] = line
}

// Get looks up a line by name.
func (s IndicatorSet) Get(name string) (Line, bool) {
	l, ok := s.lines[name]
	return l, ok
}

// Names returns indicator names in insertion order.
func (s IndicatorSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s IndicatorSet) Len() int { return len(s.names) }

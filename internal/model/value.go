package model

import (
	"encoding/json"
	"strconv"
)

// Value is a float that may be "not yet available", e.g. inside an
// indicator's warm-up window. The zero Value is undefined.
type Value struct {
	Float   float64
	Defined bool
}

// Some returns a defined Value.
func Some(f float64) Value { return Value{Float: f, Defined: true} }

// None returns an undefined Value.
func None() Value { return Value{} }

// Get returns the float and whether it is defined.
func (v Value) Get() (float64, bool) { return v.Float, v.Defined }

func (v Value) String() string {
	if !v.Defined {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

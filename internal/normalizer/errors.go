package normalizer

import "errors"

var (
	// ErrMalformedInput means a required column (timestamp or close) is absent.
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptySeries means too few usable rows remain after cleaning.
	ErrEmptySeries = errors.New("not enough usable rows")
	// ErrUnorderedTimestamp means timestamps could not be put in strictly
	// increasing order.
	ErrUnorderedTimestamp = errors.New("unordered timestamps")
)

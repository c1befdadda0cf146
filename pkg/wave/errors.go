package wave

import "errors"

var (
	// ErrMalformedContainer covers bad signatures, chunk sizes that overrun the
	// file, truncated input and missing fmt or data chunks.
	ErrMalformedContainer = errors.New("malformed WAVE container")
)

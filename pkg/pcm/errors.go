package pcm

import "errors"

var (
	ErrUnsupportedFormat       = errors.New("unsupported sample format")
	ErrNativeFloatIncompatible = errors.New("native floating point is not IEEE 754")
	ErrNotNormalized           = errors.New("buffer is not normalized")
)

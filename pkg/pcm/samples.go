package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/drgolem/wav2mp3/pkg/wave"
)

// Kind names the canonical sample representation of a normalized buffer.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt16
	KindInt32
	KindFloat32
	KindFloat64
)

func (k Kind) String() string {
	switch k {
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	default:
		return "invalid"
	}
}

// KindOf returns the representation of a normalized buffer.
func KindOf(buf *wave.Buffer) Kind {
	if !buf.HostOrder {
		return KindInvalid
	}
	switch {
	case buf.Format == wave.FormatPCM && buf.Width == 2:
		return KindInt16
	case buf.Format == wave.FormatPCM && buf.Width == 4:
		return KindInt32
	case buf.Format == wave.FormatIEEEFloat && buf.Width == 4:
		return KindFloat32
	case buf.Format == wave.FormatIEEEFloat && buf.Width == 8:
		return KindFloat64
	}
	return KindInvalid
}

func expectKind(buf *wave.Buffer, want Kind) error {
	if got := KindOf(buf); got != want {
		return fmt.Errorf("%w: have %v, want %v", ErrNotNormalized, got, want)
	}
	return nil
}

// Int16s copies a normalized int16 buffer into a slice.
func Int16s(buf *wave.Buffer) ([]int16, error) {
	if err := expectKind(buf, KindInt16); err != nil {
		return nil, err
	}
	out := make([]int16, buf.Elements())
	for i := range out {
		out[i] = int16(binary.NativeEndian.Uint16(buf.Data[i*2:]))
	}
	return out, nil
}

// Int32s copies a normalized int32 buffer into a slice.
func Int32s(buf *wave.Buffer) ([]int32, error) {
	if err := expectKind(buf, KindInt32); err != nil {
		return nil, err
	}
	out := make([]int32, buf.Elements())
	for i := range out {
		out[i] = int32(binary.NativeEndian.Uint32(buf.Data[i*4:]))
	}
	return out, nil
}

// Float32s copies a normalized float32 buffer into a slice.
func Float32s(buf *wave.Buffer) ([]float32, error) {
	if err := expectKind(buf, KindFloat32); err != nil {
		return nil, err
	}
	out := make([]float32, buf.Elements())
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(buf.Data[i*4:]))
	}
	return out, nil
}

// Float64s copies a normalized float64 buffer into a slice.
func Float64s(buf *wave.Buffer) ([]float64, error) {
	if err := expectKind(buf, KindFloat64); err != nil {
		return nil, err
	}
	out := make([]float64, buf.Elements())
	for i := range out {
		out[i] = math.Float64frombits(binary.NativeEndian.Uint64(buf.Data[i*8:]))
	}
	return out, nil
}

// ToInt16 returns the interleaved samples of any normalized buffer as int16.
// int32 keeps its high 16 bits, floats are clamped to [-1, 1] and scaled.
func ToInt16(buf *wave.Buffer) ([]int16, error) {
	switch KindOf(buf) {
	case KindInt16:
		return Int16s(buf)
	case KindInt32:
		in, err := Int32s(buf)
		if err != nil {
			return nil, err
		}
		out := make([]int16, len(in))
		for i, v := range in {
			out[i] = int16(v >> 16)
		}
		return out, nil
	case KindFloat32:
		in, err := Float32s(buf)
		if err != nil {
			return nil, err
		}
		out := make([]int16, len(in))
		for i, v := range in {
			out[i] = FloatToInt16(float64(v))
		}
		return out, nil
	case KindFloat64:
		in, err := Float64s(buf)
		if err != nil {
			return nil, err
		}
		out := make([]int16, len(in))
		for i, v := range in {
			out[i] = FloatToInt16(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: format %v width %d", ErrNotNormalized, buf.Format, buf.Width)
}

// FloatToInt16 clamps x to [-1, 1] and scales it to the int16 range.
func FloatToInt16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for both signs keeps +1 from overflowing
	return int16(x * 32767.0)
}

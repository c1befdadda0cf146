// Package pcm converts the raw sample bytes of a wave.Buffer into
// host-native samples of a canonical width.
//
// After Normalize a buffer holds one of:
//   - PCM int16 or int32
//   - IEEE float32 or float64
//
// A-law and µ-law input is expanded to PCM int16, 8-bit PCM is widened to
// int16 and 24-bit PCM to int32.
package pcm

import (
	"fmt"
	"math"

	"github.com/drgolem/wav2mp3/pkg/byteorder"
	"github.com/drgolem/wav2mp3/pkg/wave"
)

// Normalize rewrites buf in place. Validation happens before any mutation, so
// a rejected buffer is left untouched.
func Normalize(buf *wave.Buffer) error {
	if buf.HostOrder {
		return nil
	}
	if err := CheckSupport(buf); err != nil {
		return err
	}

	switch buf.Format {
	case wave.FormatPCM:
		if buf.Width == 1 {
			centerUnsigned(buf)
		}
		if buf.Width != 2 && buf.Width != 4 {
			if err := widen(buf); err != nil {
				return err
			}
		}
	case wave.FormatALaw:
		expand(buf, ALawToLinear)
	case wave.FormatMuLaw:
		expand(buf, MuLawToLinear)
	}

	if err := byteorder.ToHost(buf.Data, buf.Width, byteorder.LittleEndian); err != nil {
		return fmt.Errorf("converting to host order: %w", err)
	}
	buf.HostOrder = true
	return nil
}

// CheckSupport reports whether Normalize can handle the buffer's format and
// sample width.
func CheckSupport(buf *wave.Buffer) error {
	switch buf.Format {
	case wave.FormatPCM:
		if buf.Width < 1 || buf.Width > 4 {
			return fmt.Errorf("%w: %d-byte PCM samples", ErrUnsupportedFormat, buf.Width)
		}
	case wave.FormatIEEEFloat:
		if buf.Width != 4 && buf.Width != 8 {
			return fmt.Errorf("%w: %d-byte float samples", ErrUnsupportedFormat, buf.Width)
		}
		if !nativeFloatIEEE(buf.Width) {
			return fmt.Errorf("%w: %d-byte float", ErrNativeFloatIncompatible, buf.Width)
		}
	case wave.FormatALaw, wave.FormatMuLaw:
		if buf.Width != 1 {
			return fmt.Errorf("%w: %d-byte %v samples", ErrUnsupportedFormat, buf.Width, buf.Format)
		}
	default:
		return fmt.Errorf("%w: format %v", ErrUnsupportedFormat, buf.Format)
	}
	return nil
}

// nativeFloatIEEE probes the bit layout of the host float types.
func nativeFloatIEEE(width int) bool {
	switch width {
	case 4:
		return math.Float32bits(1.0) == 0x3F800000 &&
			math.Float32bits(-2.5) == 0xC0200000 &&
			math.IsInf(float64(math.Float32frombits(0x7F800000)), 1)
	case 8:
		return math.Float64bits(1.0) == 0x3FF0000000000000 &&
			math.Float64bits(-2.5) == 0xC004000000000000 &&
			math.IsInf(math.Float64frombits(0x7FF0000000000000), 1)
	}
	return false
}

// centerUnsigned maps unsigned 8-bit samples [0,255] onto signed [-128,127].
func centerUnsigned(buf *wave.Buffer) {
	for i, b := range buf.Data {
		buf.Data[i] = b - 128
	}
}

// widen pads 1-byte samples to 2 bytes and 3-byte samples to 4 bytes. The
// new zero bytes are low-order, so values scale to the wider full range.
func widen(buf *wave.Buffer) error {
	widthOut := 4
	if buf.Width < 2 {
		widthOut = 2
	}

	n := buf.Elements()
	out := make([]byte, n*widthOut)
	if err := byteorder.PadLE(out, buf.Data, buf.Width, widthOut, n); err != nil {
		return fmt.Errorf("widening %d-byte samples: %w", buf.Width, err)
	}

	buf.Data = out
	buf.Width = widthOut
	return nil
}

// expand decodes companded bytes into little-endian int16 PCM.
func expand(buf *wave.Buffer, decode func(byte) int16) {
	n := buf.Elements()
	out := make([]byte, n*2)
	for i, b := range buf.Data[:n] {
		byteorder.Encode(uint64(uint16(decode(b))), out[i*2:i*2+2], byteorder.LittleEndian)
	}

	buf.Data = out
	buf.Width = 2
	buf.Format = wave.FormatPCM
}

// Package byteorder converts packed fixed-width integers between
// little-endian, big-endian and host-native order, and widens narrow sample
// containers into wider ones.
//
// All functions work on explicit byte slices; no memory is reinterpreted.
package byteorder

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Order is the byte order a packed value is stored in.
type Order int

const (
	LittleEndian Order = iota
	BigEndian
)

func (o Order) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

var (
	ErrInvalidWidth = errors.New("invalid integer width")
	ErrShortBuffer  = errors.New("buffer too short")
)

// Host is the byte order of the machine the program runs on.
var Host = hostOrder()

func hostOrder() Order {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 0x0102)
	if probe[0] == 0x02 {
		return LittleEndian
	}
	return BigEndian
}

// ValidWidth reports whether width is one of 1, 2, 4 or 8 bytes.
func ValidWidth(width int) bool {
	return width == 1 || width == 2 || width == 4 || width == 8
}

// Decode reads the unsigned integer stored in b using order.
// The width is len(b) and must be 1, 2, 4 or 8; other widths return 0.
func Decode(b []byte, order Order) uint64 {
	bo := byteOrder(order)
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(bo.Uint16(b))
	case 4:
		return uint64(bo.Uint32(b))
	case 8:
		return bo.Uint64(b)
	}
	return 0
}

// Encode stores the low len(dst) bytes of v into dst using order.
// It is the inverse of Decode.
func Encode(v uint64, dst []byte, order Order) {
	bo := byteOrder(order)
	switch len(dst) {
	case 1:
		dst[0] = byte(v)
	case 2:
		bo.PutUint16(dst, uint16(v))
	case 4:
		bo.PutUint32(dst, uint32(v))
	case 8:
		bo.PutUint64(dst, v)
	}
}

// ToHost rewrites every width-byte element of data from order to host order.
func ToHost(data []byte, width int, order Order) error {
	return convert(data, width, order, Host)
}

// FromHost rewrites every width-byte element of data from host order to order.
func FromHost(data []byte, width int, order Order) error {
	return convert(data, width, Host, order)
}

func convert(data []byte, width int, from, to Order) error {
	if !ValidWidth(width) {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if len(data)%width != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of width %d", ErrShortBuffer, len(data), width)
	}
	if width == 1 || from == to {
		return nil
	}
	for off := 0; off < len(data); off += width {
		elem := data[off : off+width]
		Encode(Decode(elem, from), elem, to)
	}
	return nil
}

// PadLE copies numBlocks elements of widthIn bytes from src into elements of
// widthOut bytes in dst for a little-endian target. Zeros fill the low-order
// (leading) bytes and the original bytes land in the high-order positions, so
// a signed sample keeps its sign and is scaled by 256 per added byte.
func PadLE(dst, src []byte, widthIn, widthOut, numBlocks int) error {
	return pad(dst, src, widthIn, widthOut, numBlocks, widthOut-widthIn)
}

// PadBE is PadLE for a big-endian target: original bytes come first (high
// order) and the zero padding trails.
func PadBE(dst, src []byte, widthIn, widthOut, numBlocks int) error {
	return pad(dst, src, widthIn, widthOut, numBlocks, 0)
}

func pad(dst, src []byte, widthIn, widthOut, numBlocks, shift int) error {
	if widthIn <= 0 || widthOut < widthIn {
		return fmt.Errorf("%w: cannot pad %d into %d bytes", ErrInvalidWidth, widthIn, widthOut)
	}
	if len(src) < numBlocks*widthIn || len(dst) < numBlocks*widthOut {
		return fmt.Errorf("%w: need %d source and %d destination bytes", ErrShortBuffer, numBlocks*widthIn, numBlocks*widthOut)
	}
	clear(dst[:numBlocks*widthOut])
	for i := range numBlocks {
		copy(dst[i*widthOut+shift:], src[i*widthIn:(i+1)*widthIn])
	}
	return nil
}

func byteOrder(o Order) binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

package wave

import "fmt"

// FormatCode is the wFormatTag of a fmt chunk.
type FormatCode uint16

const (
	FormatPCM        FormatCode = 0x0001
	FormatIEEEFloat  FormatCode = 0x0003
	FormatALaw       FormatCode = 0x0006
	FormatMuLaw      FormatCode = 0x0007
	FormatExtensible FormatCode = 0xFFFE
)

func (f FormatCode) String() string {
	switch f {
	case FormatPCM:
		return "PCM"
	case FormatIEEEFloat:
		return "IEEE_FLOAT"
	case FormatALaw:
		return "ALAW"
	case FormatMuLaw:
		return "MULAW"
	case FormatExtensible:
		return "EXTENSIBLE"
	default:
		return fmt.Sprintf("0x%04X", uint16(f))
	}
}

// FourCC identifiers used by the parser.
const (
	riffID = "RIFF"
	waveID = "WAVE"
	fmtID  = "fmt "
	dataID = "data"
)

// FmtDescriptor mirrors the fmt chunk, including the optional
// WAVE_FORMAT_EXTENSIBLE fields.
type FmtDescriptor struct {
	FormatCode    FormatCode
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	ExtensionSize uint16
	ValidBits     uint16
	ChannelMask   uint32
	SubFormat     [16]byte
}

// Extensible reports whether the extension block carried a sub-format GUID.
func (f *FmtDescriptor) Extensible() bool {
	return f.FormatCode == FormatExtensible && f.ExtensionSize == extensibleSize
}

// EffectiveFormat resolves EXTENSIBLE to the code stored in the first byte
// of the sub-format GUID.
func (f *FmtDescriptor) EffectiveFormat() FormatCode {
	if f.FormatCode == FormatExtensible {
		return FormatCode(f.SubFormat[0])
	}
	return f.FormatCode
}

// RiffHeader is the 12-byte file header.
type RiffHeader struct {
	ID       [4]byte
	Size     uint32
	FormType [4]byte
}

// SubchunkHeader precedes every chunk inside the RIFF form.
type SubchunkHeader struct {
	ID   [4]byte
	Size uint32
}

func (h SubchunkHeader) String() string {
	return fmt.Sprintf("%q (%d bytes)", string(h.ID[:]), h.Size)
}

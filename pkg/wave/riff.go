package wave

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	riffHeaderSize     = 12
	subchunkHeaderSize = 8
	fmtBaseSize        = 16
	extensibleSize     = 22
)

// Info is the result of walking a file without loading its samples.
type Info struct {
	Fmt      FmtDescriptor
	DataSize uint32
	Chunks   []SubchunkHeader
}

// ReadFile parses the WAVE file at fileName.
func ReadFile(fileName string) (*Buffer, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	return Parse(bufio.NewReader(f))
}

// ParseBytes parses an in-memory WAVE file.
func ParseBytes(data []byte) (*Buffer, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads a RIFF/WAVE stream and returns its samples exactly as stored.
//
// Subchunks are visited in file order until both fmt and data have been
// seen; anything after that pair is never read. A data size that is not a
// multiple of the frame size drops the trailing partial frame.
func Parse(r io.Reader) (*Buffer, error) {
	p := &parser{r: r, loadData: true}
	if err := p.walk(); err != nil {
		return nil, err
	}

	format := &p.info.Fmt
	width := int(format.BitsPerSample / 8)
	channels := int(format.Channels)

	frameSize := width * channels
	samples := len(p.data) / frameSize

	return &Buffer{
		Width:      width,
		SampleRate: int(format.SampleRate),
		Channels:   channels,
		Format:     format.EffectiveFormat(),
		Data:       p.data[:samples*frameSize],
		Samples:    samples,
	}, nil
}

// Probe walks the file like Parse but skips over the sample data.
func Probe(r io.Reader) (*Info, error) {
	p := &parser{r: r}
	if err := p.walk(); err != nil {
		return nil, err
	}
	return &p.info, nil
}

// ProbeFile is Probe on a file name.
func ProbeFile(fileName string) (*Info, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	return Probe(bufio.NewReader(f))
}

type parser struct {
	r        io.Reader
	loadData bool

	info Info
	data []byte
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedContainer, fmt.Sprintf(format, args...))
}

func (p *parser) walk() error {
	header, err := p.readRiffHeader()
	if err != nil {
		return err
	}

	remaining := int64(header.Size) - 4
	fmtFound, dataFound := false, false

	for remaining > 0 && !(fmtFound && dataFound) {
		sub, err := p.readSubchunkHeader()
		if err != nil {
			return err
		}
		remaining -= subchunkHeaderSize
		p.info.Chunks = append(p.info.Chunks, sub)

		var consumed int64
		switch {
		case string(sub.ID[:]) == fmtID && !fmtFound:
			fmtFound = true
			consumed, err = p.readFmtChunk(sub)
		case string(sub.ID[:]) == dataID && !dataFound:
			dataFound = true
			consumed, err = p.readDataChunk(sub)
		default:
			consumed, err = p.skip(int64(sub.Size))
		}
		if err != nil {
			return err
		}
		remaining -= consumed

		if sub.Size%2 == 1 && remaining > 0 && !(fmtFound && dataFound) {
			n, err := p.skip(1)
			if err != nil {
				return err
			}
			remaining -= n
		}
	}

	if remaining < 0 {
		return malformed("chunk sizes overrun the RIFF size by %d bytes", -remaining)
	}
	if !fmtFound {
		return malformed("missing fmt chunk")
	}
	if !dataFound {
		return malformed("missing data chunk")
	}
	if p.info.Fmt.Channels == 0 {
		return malformed("fmt chunk declares zero channels")
	}
	if p.info.Fmt.BitsPerSample < 8 {
		return malformed("fmt chunk declares %d bits per sample", p.info.Fmt.BitsPerSample)
	}
	return nil
}

func (p *parser) readRiffHeader() (RiffHeader, error) {
	var h RiffHeader
	if err := binary.Read(p.r, binary.LittleEndian, &h); err != nil {
		return h, malformed("reading RIFF header: %v", err)
	}
	if string(h.ID[:]) != riffID {
		return h, malformed("expected %q signature, got %q", riffID, h.ID[:])
	}
	if string(h.FormType[:]) != waveID {
		return h, malformed("expected %q form type, got %q", waveID, h.FormType[:])
	}
	return h, nil
}

func (p *parser) readSubchunkHeader() (SubchunkHeader, error) {
	var h SubchunkHeader
	if err := binary.Read(p.r, binary.LittleEndian, &h); err != nil {
		return h, malformed("reading subchunk header: %v", err)
	}
	return h, nil
}

// fmtBase is the fixed 16-byte part of a fmt chunk.
type fmtBase struct {
	FormatCode    uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// fmtExtension follows cbSize when cbSize == 22.
type fmtExtension struct {
	ValidBits   uint16
	ChannelMask uint32
	SubFormat   [16]byte
}

func (p *parser) readFmtChunk(h SubchunkHeader) (int64, error) {
	if h.Size < fmtBaseSize {
		return 0, malformed("fmt chunk is %d bytes, need at least %d", h.Size, fmtBaseSize)
	}

	var base fmtBase
	if err := binary.Read(p.r, binary.LittleEndian, &base); err != nil {
		return 0, malformed("reading fmt chunk: %v", err)
	}
	consumed := int64(fmtBaseSize)

	d := &p.info.Fmt
	d.FormatCode = FormatCode(base.FormatCode)
	d.Channels = base.Channels
	d.SampleRate = base.SampleRate
	d.ByteRate = base.ByteRate
	d.BlockAlign = base.BlockAlign
	d.BitsPerSample = base.BitsPerSample

	// A single stray byte after the base fields cannot hold an extension
	// size; it is skipped with the rest of the chunk.
	if h.Size >= fmtBaseSize+2 {
		if err := binary.Read(p.r, binary.LittleEndian, &d.ExtensionSize); err != nil {
			return consumed, malformed("reading fmt extension size: %v", err)
		}
		consumed += 2

		if d.ExtensionSize == extensibleSize {
			if int64(h.Size) < consumed+extensibleSize {
				return consumed, malformed("fmt chunk too small for its %d-byte extension", extensibleSize)
			}
			var ext fmtExtension
			if err := binary.Read(p.r, binary.LittleEndian, &ext); err != nil {
				return consumed, malformed("reading fmt extension: %v", err)
			}
			consumed += extensibleSize

			d.ValidBits = ext.ValidBits
			d.ChannelMask = ext.ChannelMask
			d.SubFormat = ext.SubFormat
		}
	}

	// Vendor padding inside the declared fmt size.
	n, err := p.skip(int64(h.Size) - consumed)
	return consumed + n, err
}

func (p *parser) readDataChunk(h SubchunkHeader) (int64, error) {
	p.info.DataSize = h.Size
	if !p.loadData {
		return p.skip(int64(h.Size))
	}

	var buf bytes.Buffer
	n, err := io.CopyN(&buf, p.r, int64(h.Size))
	if err != nil {
		return n, malformed("data chunk declares %d bytes, only %d present", h.Size, n)
	}
	p.data = buf.Bytes()
	return n, nil
}

func (p *parser) skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	skipped, err := io.CopyN(io.Discard, p.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return skipped, malformed("chunk declares %d bytes, only %d present", n, skipped)
		}
		return skipped, fmt.Errorf("skipping chunk: %w", err)
	}
	return skipped, nil
}

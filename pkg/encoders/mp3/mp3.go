package mp3

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/drgolem/wav2mp3/pkg/pcm"
	"github.com/drgolem/wav2mp3/pkg/types"
	"github.com/drgolem/wav2mp3/pkg/wave"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// Sample rates accepted by the MPEG-1, MPEG-2 and MPEG-2.5 layer III tables.
var sampleRates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

// Encoder wraps the shine MP3 encoder.
// It implements the types.AudioEncoder interface.
//
// shine consumes interleaved int16 samples, so wider normalized buffers are
// reduced with pcm.ToInt16 before encoding. Encoder holds no per-file state
// and is safe for concurrent use; each Encode call owns its shine instance.
type Encoder struct{}

// NewEncoder creates a new MP3 encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Extension returns ".mp3".
func (e *Encoder) Extension() string {
	return ".mp3"
}

// SampleRates returns the rates shine can encode without resampling.
func (e *Encoder) SampleRates() []int {
	return slices.Clone(sampleRates)
}

// SupportsSampleRate reports whether rate is a valid MPEG layer III rate.
func (e *Encoder) SupportsSampleRate(rate int) bool {
	return slices.Contains(sampleRates, rate)
}

// OutputBufferSize returns the recommended output capacity for a buffer of
// the given per-channel sample count.
func OutputBufferSize(samples int) int {
	return samples*5/4 + 7200
}

// Encode encodes a normalized buffer and writes the MP3 stream to w.
func (e *Encoder) Encode(buf *wave.Buffer, w io.Writer) (n int, err error) {
	if buf.Channels < 1 || buf.Channels > 2 {
		return 0, fmt.Errorf("%w: %d", types.ErrChannelCountUnsupported, buf.Channels)
	}
	if !e.SupportsSampleRate(buf.SampleRate) {
		return 0, fmt.Errorf("%w: %d Hz", types.ErrUnsupportedSampleRate, buf.SampleRate)
	}
	if buf.Samples == 0 {
		return 0, fmt.Errorf("%w: no samples to encode", types.ErrEncodeFailure)
	}

	samples, err := pcm.ToInt16(buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrEncodeFailure, err)
	}

	var out bytes.Buffer
	out.Grow(OutputBufferSize(buf.Samples))

	if err := encode(&out, buf.SampleRate, buf.Channels, samples); err != nil {
		return 0, err
	}
	if out.Len() == 0 {
		return 0, fmt.Errorf("%w: encoder produced no output", types.ErrEncodeFailure)
	}

	written, err := w.Write(out.Bytes())
	if err != nil {
		return written, fmt.Errorf("failed to write MP3 data: %w", err)
	}
	return written, nil
}

// encode runs one shine instance over the whole buffer. shine flushes its
// final frame as part of Write.
func encode(out io.Writer, rate, channels int, samples []int16) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: shine panicked: %v", types.ErrEncodeFailure, r)
		}
	}()

	enc := shine.NewEncoder(rate, channels)
	if err := enc.Write(out, samples); err != nil {
		return fmt.Errorf("%w: %w", types.ErrEncodeFailure, err)
	}
	return nil
}

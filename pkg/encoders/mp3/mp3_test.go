package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/drgolem/wav2mp3/pkg/pcm"
	"github.com/drgolem/wav2mp3/pkg/types"
	"github.com/drgolem/wav2mp3/pkg/wave"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

var _ types.AudioEncoder = (*Encoder)(nil)

// sineBuffer returns a normalized int16 buffer with a 440 Hz tone.
func sineBuffer(t *testing.T, rate, channels, samples int) *wave.Buffer {
	t.Helper()

	data := make([]byte, samples*channels*2)
	for i := range samples {
		v := int16(math.Sin(2*math.Pi*440*float64(i)/float64(rate)) * 12000)
		for ch := range channels {
			binary.LittleEndian.PutUint16(data[(i*channels+ch)*2:], uint16(v))
		}
	}
	buf := &wave.Buffer{
		Width:      2,
		SampleRate: rate,
		Channels:   channels,
		Format:     wave.FormatPCM,
		Data:       data,
		Samples:    samples,
	}
	if err := pcm.Normalize(buf); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return buf
}

func TestNewEncoder(t *testing.T) {
	enc := NewEncoder()
	if enc == nil {
		t.Fatal("NewEncoder returned nil")
	}
	if enc.Extension() != ".mp3" {
		t.Errorf("Extension: got %q, want .mp3", enc.Extension())
	}
}

func TestSupportsSampleRate(t *testing.T) {
	enc := NewEncoder()
	for _, rate := range []int{8000, 22050, 44100, 48000} {
		if !enc.SupportsSampleRate(rate) {
			t.Errorf("rate %d should be supported", rate)
		}
	}
	for _, rate := range []int{0, 7999, 96000, 192000} {
		if enc.SupportsSampleRate(rate) {
			t.Errorf("rate %d should not be supported", rate)
		}
	}

	rates := enc.SampleRates()
	rates[0] = 1
	if enc.SampleRates()[0] != 8000 {
		t.Error("SampleRates exposes internal slice")
	}
}

func TestOutputBufferSize(t *testing.T) {
	if got := OutputBufferSize(4); got != 7205 {
		t.Errorf("OutputBufferSize(4): got %d, want 7205", got)
	}
}

func TestEncodeProducesDecodableStream(t *testing.T) {
	for _, channels := range []int{1, 2} {
		buf := sineBuffer(t, 44100, channels, 44100/2)

		var out bytes.Buffer
		n, err := NewEncoder().Encode(buf, &out)
		if err != nil {
			t.Fatalf("channels=%d: Encode failed: %v", channels, err)
		}
		if n <= 0 || n != out.Len() {
			t.Fatalf("channels=%d: Encode returned %d, wrote %d", channels, n, out.Len())
		}

		dec, err := gomp3.NewDecoder(bytes.NewReader(out.Bytes()))
		if err != nil {
			t.Fatalf("channels=%d: output is not a valid MP3 stream: %v", channels, err)
		}
		if dec.SampleRate() != 44100 {
			t.Errorf("channels=%d: decoded sample rate %d, want 44100", channels, dec.SampleRate())
		}
		pcmOut, err := io.ReadAll(dec)
		if err != nil {
			t.Fatalf("channels=%d: decoding output: %v", channels, err)
		}
		if len(pcmOut) == 0 {
			t.Errorf("channels=%d: decoded no audio", channels)
		}
	}
}

func TestEncodeRejects(t *testing.T) {
	tests := []struct {
		name string
		buf  func(t *testing.T) *wave.Buffer
		want error
	}{
		{"three channels", func(t *testing.T) *wave.Buffer { return sineBuffer(t, 44100, 3, 100) }, types.ErrChannelCountUnsupported},
		{"96 kHz", func(t *testing.T) *wave.Buffer { return sineBuffer(t, 96000, 1, 100) }, types.ErrUnsupportedSampleRate},
		{"empty", func(t *testing.T) *wave.Buffer { return sineBuffer(t, 44100, 1, 0) }, types.ErrEncodeFailure},
		{"not normalized", func(t *testing.T) *wave.Buffer {
			return &wave.Buffer{Width: 2, SampleRate: 44100, Channels: 1, Format: wave.FormatPCM, Data: []byte{0, 0}, Samples: 1}
		}, types.ErrEncodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder().Encode(tt.buf(t), io.Discard)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

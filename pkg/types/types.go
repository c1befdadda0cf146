package types

import (
	"errors"
	"io"
	"time"

	"github.com/drgolem/wav2mp3/pkg/wave"
)

// AudioEncoder is the common interface for compressed-audio encoders.
// Implementations receive a buffer already normalized by pcm.Normalize.
type AudioEncoder interface {
	// Encode writes the encoded stream for buf to w, including any
	// trailing flush output, and returns the number of bytes written.
	Encode(buf *wave.Buffer, w io.Writer) (int, error)

	// Extension returns the output file extension, including the dot.
	Extension() string

	// SupportsSampleRate reports whether rate can be encoded directly.
	SupportsSampleRate(rate int) bool

	// SampleRates lists the directly supported rates in ascending order.
	SampleRates() []int
}

var (
	// ErrEncodeFailure indicates the encoder produced no output or failed.
	ErrEncodeFailure = errors.New("encode failure")

	// ErrChannelCountUnsupported indicates a channel count other than 1 or 2.
	ErrChannelCountUnsupported = errors.New("unsupported channel count")

	// ErrUnsupportedSampleRate indicates a rate the encoder cannot take and
	// resampling is disabled.
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
)

// TranscodeStatus describes one converted file.
type TranscodeStatus struct {
	FileName      string        // Input file name
	OutputName    string        // Written file name
	SampleRate    int           // Encoded sample rate in Hz
	Channels      int           // 1=mono, 2=stereo
	BitsPerSample int           // Container width after normalization
	Samples       int           // Per-channel samples encoded
	OutputBytes   int           // Encoded size
	Resampled     bool          // Sample rate was converted before encoding
	Elapsed       time.Duration // Wall-clock time for the file
}

// Package resample converts the sample rate of a normalized buffer with SoXR.
package resample

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/drgolem/wav2mp3/pkg/pcm"
	"github.com/drgolem/wav2mp3/pkg/wave"

	soxr "github.com/zaf/resample"
)

// Quality selects the SoXR recipe.
type Quality int

const (
	Quick    Quality = soxr.Quick
	Low      Quality = soxr.LowQ
	Medium   Quality = soxr.MediumQ
	High     Quality = soxr.HighQ
	VeryHigh Quality = soxr.VeryHighQ
)

var ErrUnknownQuality = errors.New("unknown resample quality")

// ParseQuality maps a flag value to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(s) {
	case "quick":
		return Quick, nil
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high", "":
		return High, nil
	case "veryhigh", "very-high":
		return VeryHigh, nil
	}
	return 0, fmt.Errorf("%w: %q (valid: quick, low, medium, high, veryhigh)", ErrUnknownQuality, s)
}

// NearestRate returns the entry of rates closest to rate, preferring the
// higher one on a tie so no bandwidth is lost.
func NearestRate(rate int, rates []int) int {
	best := 0
	bestDist := -1
	for _, r := range rates {
		d := r - rate
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist || (d == bestDist && r > best) {
			best, bestDist = r, d
		}
	}
	return best
}

// Buffer resamples a normalized buffer in place to rate.
func Buffer(buf *wave.Buffer, rate int, quality Quality) error {
	if rate <= 0 {
		return fmt.Errorf("invalid target sample rate %d", rate)
	}
	if buf.SampleRate == rate {
		return nil
	}

	format, err := soxrFormat(pcm.KindOf(buf))
	if err != nil {
		return err
	}

	var out bytes.Buffer
	out.Grow(len(buf.Data)*rate/buf.SampleRate + buf.Width*buf.Channels)

	resampler, err := soxr.New(&out, float64(buf.SampleRate), float64(rate), buf.Channels, format, int(quality))
	if err != nil {
		return fmt.Errorf("failed to create resampler: %w", err)
	}

	if _, err := resampler.Write(buf.Data); err != nil {
		resampler.Close()
		return fmt.Errorf("failed to resample: %w", err)
	}
	if err := resampler.Close(); err != nil {
		return fmt.Errorf("failed to close resampler: %w", err)
	}

	frameSize := buf.Width * buf.Channels
	samples := out.Len() / frameSize

	buf.Data = out.Bytes()[:samples*frameSize]
	buf.Samples = samples
	buf.SampleRate = rate
	return nil
}

func soxrFormat(kind pcm.Kind) (int, error) {
	switch kind {
	case pcm.KindInt16:
		return soxr.I16, nil
	case pcm.KindInt32:
		return soxr.I32, nil
	case pcm.KindFloat32:
		return soxr.F32, nil
	case pcm.KindFloat64:
		return soxr.F64, nil
	}
	return 0, fmt.Errorf("%w: cannot resample %v samples", pcm.ErrNotNormalized, kind)
}

// Package transcode runs the per-file pipeline: parse, normalize, check,
// resample when needed, encode and write the output next to the input.
package transcode

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/drgolem/wav2mp3/pkg/pcm"
	"github.com/drgolem/wav2mp3/pkg/resample"
	"github.com/drgolem/wav2mp3/pkg/types"
	"github.com/drgolem/wav2mp3/pkg/wave"
)

// Options controls optional pipeline stages.
type Options struct {
	// Resample converts unsupported sample rates to the nearest rate the
	// encoder accepts instead of failing the file.
	Resample bool
	Quality  resample.Quality
}

// Transcoder converts single files. It holds no per-file state, so one
// Transcoder may be shared by every worker.
type Transcoder struct {
	encoder types.AudioEncoder
	options Options
	logger  *slog.Logger
}

// New creates a Transcoder writing through encoder.
func New(encoder types.AudioEncoder, options Options, logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcoder{
		encoder: encoder,
		options: options,
		logger:  logger,
	}
}

// OutputName replaces a trailing ".wav" (any case) of inputFile with ext.
func OutputName(inputFile, ext string) string {
	base := inputFile
	if e := filepath.Ext(inputFile); strings.EqualFold(e, ".wav") {
		base = strings.TrimSuffix(inputFile, e)
	}
	return base + ext
}

// ConvertFile transcodes inputFile and writes the result next to it.
func (t *Transcoder) ConvertFile(inputFile string) (*types.TranscodeStatus, error) {
	start := time.Now()

	buf, err := wave.ReadFile(inputFile)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("WAV file parsed",
		"file", filepath.Base(inputFile),
		"format", buf.Format,
		"sample_rate", buf.SampleRate,
		"channels", buf.Channels,
		"bits_per_sample", buf.BitsPerSample(),
		"samples", buf.Samples)

	if err := pcm.Normalize(buf); err != nil {
		return nil, err
	}

	if buf.Channels < 1 || buf.Channels > 2 {
		return nil, fmt.Errorf("%w: %d", types.ErrChannelCountUnsupported, buf.Channels)
	}

	resampled, err := t.fitSampleRate(buf)
	if err != nil {
		return nil, err
	}

	outputFile := OutputName(inputFile, t.encoder.Extension())
	n, err := t.writeOutput(buf, outputFile)
	if err != nil {
		return nil, err
	}

	status := &types.TranscodeStatus{
		FileName:      inputFile,
		OutputName:    outputFile,
		SampleRate:    buf.SampleRate,
		Channels:      buf.Channels,
		BitsPerSample: buf.BitsPerSample(),
		Samples:       buf.Samples,
		OutputBytes:   n,
		Resampled:     resampled,
		Elapsed:       time.Since(start),
	}
	return status, nil
}

func (t *Transcoder) fitSampleRate(buf *wave.Buffer) (bool, error) {
	if t.encoder.SupportsSampleRate(buf.SampleRate) {
		return false, nil
	}
	if !t.options.Resample {
		return false, fmt.Errorf("%w: %d Hz", types.ErrUnsupportedSampleRate, buf.SampleRate)
	}

	target := resample.NearestRate(buf.SampleRate, t.encoder.SampleRates())
	t.logger.Debug("Resampling audio",
		"from_rate", buf.SampleRate,
		"to_rate", target)

	if err := resample.Buffer(buf, target, t.options.Quality); err != nil {
		return false, err
	}
	return true, nil
}

// writeOutput encodes into a temporary file in the output directory and
// renames it into place, so a failed file never leaves a partial output.
func (t *Transcoder) writeOutput(buf *wave.Buffer, outputFile string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(outputFile), "."+filepath.Base(outputFile)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	n, err := t.encoder.Encode(buf, w)
	if err != nil {
		return 0, err
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return 0, fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpName, outputFile); err != nil {
		os.Remove(tmpName)
		committed = true
		return 0, fmt.Errorf("failed to move output into place: %w", err)
	}
	committed = true
	return n, nil
}

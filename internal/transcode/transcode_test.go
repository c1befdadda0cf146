package transcode

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/drgolem/wav2mp3/internal/wavtest"
	"github.com/drgolem/wav2mp3/pkg/encoders/mp3"
	"github.com/drgolem/wav2mp3/pkg/pcm"
	"github.com/drgolem/wav2mp3/pkg/resample"
	"github.com/drgolem/wav2mp3/pkg/types"
	"github.com/drgolem/wav2mp3/pkg/wave"

	audiowav "github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscoder(resampleOn bool) *Transcoder {
	return New(mp3.NewEncoder(), Options{Resample: resampleOn, Quality: resample.High}, nil)
}

func decodeMP3(t *testing.T, path string) (rate int, pcmBytes int) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	require.NoError(t, err, "output is not a valid MP3 stream")

	out, err := io.ReadAll(dec)
	require.NoError(t, err)
	return dec.SampleRate(), len(out)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/music/a.wav", "/music/a.mp3"},
		{"/music/B.WAV", "/music/B.mp3"},
		{"rel/c.Wav", "rel/c.mp3"},
		{"noext", "noext.mp3"},
		{"x.flac", "x.flac.mp3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputName(tt.in, ".mp3"), "OutputName(%q)", tt.in)
	}
}

func TestConvertFormats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		write func(t *testing.T, path string)
		rate  int
	}{
		{"pcm16 stereo", func(t *testing.T, p string) { wavtest.WritePCM16(t, p, 44100, 2, 22050) }, 44100},
		{"pcm16 mono 22k", func(t *testing.T, p string) { wavtest.WritePCM16(t, p, 22050, 1, 11025) }, 22050},
		{"pcm24 mono", func(t *testing.T, p string) { wavtest.WritePCM(t, p, 48000, 1, 24, 24000) }, 48000},
		{"float32 stereo", func(t *testing.T, p string) { wavtest.WriteFloat32(t, p, 44100, 2, 22050) }, 44100},
		{"mulaw", func(t *testing.T, p string) {
			wavtest.WriteRaw(t, p, uint16(wave.FormatMuLaw), 1, 8, 32000, bytes.Repeat([]byte{0x80, 0x00, 0xFF}, 10000))
		}, 32000},
		{"alaw", func(t *testing.T, p string) {
			wavtest.WriteRaw(t, p, uint16(wave.FormatALaw), 2, 8, 48000, bytes.Repeat([]byte{0xD5, 0x55, 0xAA, 0x2A}, 10000))
		}, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := filepath.Join(dir, tt.name+".wav")
			tt.write(t, in)

			status, err := newTranscoder(false).ConvertFile(in)
			require.NoError(t, err)

			assert.Equal(t, OutputName(in, ".mp3"), status.OutputName)
			assert.Positive(t, status.OutputBytes)
			assert.False(t, status.Resampled)

			info, err := os.Stat(status.OutputName)
			require.NoError(t, err)
			assert.EqualValues(t, status.OutputBytes, info.Size())

			// go-mp3 is only used for MPEG-1 rates here.
			if tt.rate >= 32000 {
				rate, n := decodeMP3(t, status.OutputName)
				assert.Equal(t, tt.rate, rate)
				assert.Positive(t, n)
			}
		})
	}
}

func TestConvertResamples(t *testing.T) {
	in := filepath.Join(t.TempDir(), "hires.wav")
	wavtest.WritePCM16(t, in, 96000, 2, 48000)

	status, err := newTranscoder(true).ConvertFile(in)
	require.NoError(t, err)
	assert.True(t, status.Resampled)
	assert.Equal(t, 48000, status.SampleRate)

	rate, _ := decodeMP3(t, status.OutputName)
	assert.Equal(t, 48000, rate)
}

func TestConvertUnsupportedRateWithoutResample(t *testing.T) {
	in := filepath.Join(t.TempDir(), "hires.wav")
	wavtest.WritePCM16(t, in, 96000, 1, 1000)

	_, err := newTranscoder(false).ConvertFile(in)
	require.ErrorIs(t, err, types.ErrUnsupportedSampleRate)
	assert.NoFileExists(t, OutputName(in, ".mp3"))
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.wav")
	wavtest.WriteMalformed(t, malformed)

	surround := filepath.Join(dir, "surround.wav")
	wavtest.WriteRaw(t, surround, uint16(wave.FormatPCM), 6, 16, 48000, make([]byte, 6*2*100))

	wide := filepath.Join(dir, "wide.wav")
	wavtest.WriteRaw(t, wide, uint16(wave.FormatPCM), 1, 64, 48000, make([]byte, 8*100))

	adpcm := filepath.Join(dir, "adpcm.wav")
	wavtest.WriteRaw(t, adpcm, 0x0002, 1, 8, 8000, make([]byte, 100))

	tests := []struct {
		path string
		want error
	}{
		{malformed, wave.ErrMalformedContainer},
		{surround, types.ErrChannelCountUnsupported},
		{wide, pcm.ErrUnsupportedFormat},
		{adpcm, pcm.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			_, err := newTranscoder(true).ConvertFile(tt.path)
			require.ErrorIs(t, err, tt.want)
			assert.NoFileExists(t, OutputName(tt.path, ".mp3"))
		})
	}

	_, err := newTranscoder(true).ConvertFile(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

// The parser and normalizer must agree with an independent WAVE reader.
// Narrow samples are scaled to the canonical width and keep their sign.
func TestNormalizedSamplesMatchGoAudio(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		bits  int
		write func(t *testing.T, path string)
		want  func(ref int) int
	}{
		{"pcm8", 8, func(t *testing.T, p string) { wavtest.WritePCM(t, p, 44100, 1, 8, 1000) }, func(ref int) int { return (ref - 128) << 8 }},
		{"pcm16", 16, func(t *testing.T, p string) { wavtest.WritePCM16(t, p, 44100, 2, 1000) }, func(ref int) int { return ref }},
		{"pcm24", 24, func(t *testing.T, p string) { wavtest.WritePCM(t, p, 44100, 2, 24, 1000) }, func(ref int) int { return ref << 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := filepath.Join(dir, tt.name+".wav")
			tt.write(t, in)

			buf, err := wave.ReadFile(in)
			require.NoError(t, err)
			require.NoError(t, pcm.Normalize(buf))

			var ours []int
			switch tt.bits {
			case 24:
				samples, err := pcm.Int32s(buf)
				require.NoError(t, err)
				for _, v := range samples {
					ours = append(ours, int(v))
				}
			default:
				samples, err := pcm.Int16s(buf)
				require.NoError(t, err)
				for _, v := range samples {
					ours = append(ours, int(v))
				}
			}

			f, err := os.Open(in)
			require.NoError(t, err)
			defer f.Close()

			ref, err := audiowav.NewDecoder(f).FullPCMBuffer()
			require.NoError(t, err)
			require.Len(t, ours, len(ref.Data))

			negative := 0
			for i, v := range ref.Data {
				if ours[i] != tt.want(v) {
					t.Fatalf("sample %d: got %d, want %d", i, ours[i], tt.want(v))
				}
				if ours[i] < 0 {
					negative++
				}
			}
			assert.Positive(t, negative, "a full sine period has negative samples")

			reduced, err := pcm.ToInt16(buf)
			require.NoError(t, err)
			shift := 0
			if tt.bits == 24 {
				shift = 16
			}
			for i, v := range reduced {
				if want := int16(ours[i] >> shift); v != want {
					t.Fatalf("reduced sample %d: got %d, want %d", i, v, want)
				}
			}
		})
	}
}

// Package wavtest writes WAVE fixtures for tests.
package wavtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"testing"

	"github.com/go-audio/audio"
	audiowav "github.com/go-audio/wav"
	gowav "github.com/youpy/go-wav"
)

// Sine returns sample i of a 440 Hz tone at rate, scaled to amplitude.
func Sine(i, rate int, amplitude float64) float64 {
	return math.Sin(2*math.Pi*440*float64(i)/float64(rate)) * amplitude
}

// WritePCM16 writes a 16-bit PCM tone with youpy/go-wav.
func WritePCM16(t testing.TB, path string, rate, channels, samples int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	data := make([]byte, samples*channels*2)
	for i := range samples {
		v := int16(Sine(i, rate, 12000))
		for ch := range channels {
			binary.LittleEndian.PutUint16(data[(i*channels+ch)*2:], uint16(v))
		}
	}

	w := gowav.NewWriter(f, uint32(samples), uint16(channels), uint32(rate), 16)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePCM writes an integer PCM tone of bitDepth bits with go-audio/wav.
// 8-bit samples are stored unsigned, offset by 128.
func WritePCM(t testing.TB, path string, rate, channels, bitDepth, samples int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	amplitude := float64(int(1)<<(bitDepth-2)) - 1
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, samples*channels),
		SourceBitDepth: bitDepth,
	}
	for i := range samples {
		for ch := range channels {
			buf.Data[i*channels+ch] = int(Sine(i, rate, amplitude)) + offset
		}
	}

	enc := audiowav.NewEncoder(f, rate, bitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder %s: %v", path, err)
	}
}

// Build assembles a canonical RIFF/WAVE file around raw sample bytes.
func Build(format uint16, channels, bitsPerSample uint16, rate uint32, data []byte) []byte {
	var b bytes.Buffer
	blockAlign := channels * bitsPerSample / 8

	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(4+8+16+8+len(data)+len(data)%2))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, format)
	binary.Write(&b, binary.LittleEndian, channels)
	binary.Write(&b, binary.LittleEndian, rate)
	binary.Write(&b, binary.LittleEndian, rate*uint32(blockAlign))
	binary.Write(&b, binary.LittleEndian, blockAlign)
	binary.Write(&b, binary.LittleEndian, bitsPerSample)

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(data)))
	b.Write(data)
	if len(data)%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

// WriteRaw writes a canonical file built by Build.
func WriteRaw(t testing.TB, path string, format uint16, channels, bitsPerSample uint16, rate uint32, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, Build(format, channels, bitsPerSample, rate, data), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFloat32 writes a mono or stereo IEEE float tone.
func WriteFloat32(t testing.TB, path string, rate, channels, samples int) {
	t.Helper()

	data := make([]byte, samples*channels*4)
	for i := range samples {
		v := math.Float32bits(float32(Sine(i, rate, 0.5)))
		for ch := range channels {
			binary.LittleEndian.PutUint32(data[(i*channels+ch)*4:], v)
		}
	}
	WriteRaw(t, path, 3, uint16(channels), 32, uint32(rate), data)
}

// WriteMalformed writes a file that starts like WAVE but lacks a RIFF id.
func WriteMalformed(t testing.TB, path string) {
	t.Helper()
	data := Build(1, 1, 16, 44100, make([]byte, 64))
	copy(data, "JUNK")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

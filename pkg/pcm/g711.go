package pcm

import "github.com/zaf/g711"

// ALawToLinear expands one ITU-T G.711 A-law byte to a linear 16-bit sample.
func ALawToLinear(a byte) int16 {
	return g711.DecodeAlawFrame(a)
}

// MuLawToLinear expands one ITU-T G.711 µ-law byte to a linear 16-bit sample.
func MuLawToLinear(u byte) int16 {
	return g711.DecodeUlawFrame(u)
}

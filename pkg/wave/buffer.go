package wave

// Buffer holds decoded-but-uninterpreted samples of one file.
//
// Invariant: len(Data) == Samples * Channels * Width.
type Buffer struct {
	Width      int // bytes per sample container
	SampleRate int
	Channels   int
	Format     FormatCode
	Data       []byte // interleaved samples
	Samples    int    // per channel

	// HostOrder is set once Data holds host-native values.
	HostOrder bool
}

// Elements returns the total number of interleaved samples.
func (b *Buffer) Elements() int {
	return b.Samples * b.Channels
}

// BitsPerSample returns the container width in bits.
func (b *Buffer) BitsPerSample() int {
	return b.Width * 8
}

// Valid reports whether the byte length matches the declared shape.
func (b *Buffer) Valid() bool {
	return len(b.Data) == b.Samples*b.Channels*b.Width
}

package audio

import (
	"io"
)

// mockSource is a test helper that yields a fixed slice of samples.
// It implements Reader[S] and records how it was used.
type mockSource[S Sample] struct {
	spec    Spec
	data    []S
	pos     int
	chunk   int   // max samples per read, 0 means len(dst)
	readErr error // returned once data runs out, io.EOF when nil
	closed  int
}

func newMockSource[S Sample](spec Spec, data ...S) *mockSource[S] {
	return &mockSource[S]{spec: spec, data: data}
}

// newSilentSource creates a mock source that generates silence (all zeros).
func newSilentSource(sampleRate, channels, totalSamples int) *mockSource[float32] {
	spec := Format{Channels: channels, SampleRate: sampleRate, Representation: Float32}.Spec()
	return newMockSource(spec, make([]float32, totalSamples)...)
}

// newConstantSource creates a mock source with constant value.
func newConstantSource[S Sample](spec Spec, totalSamples int, value S) *mockSource[S] {
	data := make([]S, totalSamples)
	for i := range data {
		data[i] = value
	}
	return newMockSource(spec, data...)
}

func (m *mockSource[S]) Spec() Spec   { return m.spec }
func (m *mockSource[S]) BufSize() int { return 4 }
func (m *mockSource[S]) Close() error {
	m.closed++
	return nil
}

func (m *mockSource[S]) ReadSamples(dst []S) (int, error) {
	if m.pos >= len(m.data) {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}

	limit := len(dst)
	if m.chunk > 0 {
		limit = min(limit, m.chunk)
	}
	n := copy(dst[:limit], m.data[m.pos:])
	m.pos += n
	return n, nil
}

var (
	i16Spec = Spec{Channels: 1, SampleRate: 8000, BitDepth: 16, Encoding: EncodingInt}
	f32Spec = Spec{Channels: 2, SampleRate: 44100, BitDepth: 32, Encoding: EncodingFloat}
)

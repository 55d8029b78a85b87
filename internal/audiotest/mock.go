// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
	"sync/atomic"

	"github.com/ik5/drumbox/audio"
)

// MockSource is a test helper that generates audio data for testing.
// It implements audio.Reader[S].
type MockSource[S audio.Sample] struct {
	spec        audio.Spec
	totalFrames int // Total frames to generate
	generated   int // Frames generated so far
	waveform    func(frame int, channel int) S
	bufSize     int

	failAt  int // frame index at which readErr is returned, -1 disables
	readErr error

	closed atomic.Int32
}

// NewMockSource creates a new mock audio source.
// totalFrames is the number of frames (samples per channel) to generate.
// waveform is a function that generates sample values given frame index and channel.
func NewMockSource[S audio.Sample](spec audio.Spec, totalFrames int, waveform func(frame int, channel int) S) *MockSource[S] {
	return &MockSource[S]{
		spec:        spec,
		totalFrames: totalFrames,
		waveform:    waveform,
		bufSize:     256,
		failAt:      -1,
	}
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource[S audio.Sample](spec audio.Spec, totalFrames int, value S) *MockSource[S] {
	return NewMockSource(spec, totalFrames, func(int, int) S { return value })
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource[S audio.Sample](spec audio.Spec, totalFrames int) *MockSource[S] {
	var zero S
	return NewConstantSource(spec, totalFrames, zero)
}

// NewSineSource creates a float mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource[float32] {
	spec := audio.Format{Channels: channels, SampleRate: sampleRate, Representation: audio.Float32}.Spec()
	return NewMockSource(spec, totalFrames, func(frame int, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// FailAt makes ReadSamples return err once frame is reached.
func (m *MockSource[S]) FailAt(frame int, err error) *MockSource[S] {
	m.failAt = frame
	m.readErr = err
	return m
}

// WithBufSize overrides the value reported by BufSize.
func (m *MockSource[S]) WithBufSize(n int) *MockSource[S] {
	m.bufSize = n
	return m
}

func (m *MockSource[S]) Spec() audio.Spec { return m.spec }
func (m *MockSource[S]) BufSize() int     { return m.bufSize }

func (m *MockSource[S]) Close() error {
	m.closed.Add(1)
	return nil
}

// CloseCount reports how many times Close was called.
func (m *MockSource[S]) CloseCount() int { return int(m.closed.Load()) }

// Reset resets the generated frame counter to allow re-reading
func (m *MockSource[S]) Reset() {
	m.generated = 0
}

func (m *MockSource[S]) ReadSamples(dst []S) (int, error) {
	if m.failAt >= 0 && m.generated >= m.failAt {
		return 0, m.readErr
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	channels := max(m.spec.Channels, 1)

	// Calculate how many frames we can write
	framesToWrite := min(len(dst)/channels, m.totalFrames-m.generated)
	if m.failAt >= 0 {
		framesToWrite = min(framesToWrite, m.failAt-m.generated)
	}

	for frame := range framesToWrite {
		index := m.generated + frame
		for ch := range channels {
			dst[frame*channels+ch] = m.waveform(index, ch)
		}
	}

	m.generated += framesToWrite
	written := framesToWrite * channels

	if m.generated >= m.totalFrames {
		return written, io.EOF
	}

	return written, nil
}

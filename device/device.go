// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"

	"github.com/ik5/drumbox/audio"
)

// Buffer is one device buffer handed to a Callback. Exactly one of Int16 or
// Float32 is set, as selected by Representation. Samples are interleaved.
type Buffer struct {
	Representation audio.Representation
	Int16          []int16
	Float32        []float32
}

// Len returns the number of sample slots in the buffer.
func (b Buffer) Len() int {
	switch b.Representation {
	case audio.FixedPoint16:
		return len(b.Int16)
	case audio.Float32:
		return len(b.Float32)
	default:
		return 0
	}
}

// Clear fills the buffer with silence.
func (b Buffer) Clear() {
	clear(b.Int16)
	clear(b.Float32)
}

// Callback fills a device buffer. It is called from the goroutine that
// drives the device and must return quickly.
type Callback func(Buffer)

// SupportedFormat is one configuration a device can play: a channel count
// and representation over a range of sample rates.
type SupportedFormat struct {
	Channels       int
	MinSampleRate  int
	MaxSampleRate  int
	Representation audio.Representation
}

// Supports reports whether f has the same channel count and representation
// and a sample rate inside the supported range.
func (sf SupportedFormat) Supports(f audio.Format) bool {
	return sf.Channels == f.Channels &&
		sf.Representation == f.Representation &&
		f.SampleRate >= sf.MinSampleRate &&
		f.SampleRate <= sf.MaxSampleRate
}

func (sf SupportedFormat) String() string {
	return fmt.Sprintf("%dch %d-%dHz %s", sf.Channels, sf.MinSampleRate, sf.MaxSampleRate, sf.Representation)
}

// Device is a playback target.
type Device interface {
	Name() string
	// SupportedFormats lists every configuration the device accepts.
	SupportedFormats() ([]SupportedFormat, error)
	// Open prepares an output stream in format that pulls its samples from cb.
	// Nothing is played until Play is called.
	Open(format audio.Format, cb Callback) (Output, error)
}

// Output is an opened device stream.
type Output interface {
	// Play starts invoking the callback.
	Play() error
	// Close stops the stream and releases the device. It is safe to call
	// more than once.
	Close() error
	// Done is closed once the stream has stopped for any reason.
	Done() <-chan struct{}
	// Err reports why the stream stopped, or nil if it was closed normally.
	Err() error
}

// Negotiate returns the first format of dev that supports want.
func Negotiate(dev Device, want audio.Format) (SupportedFormat, error) {
	if dev == nil {
		return SupportedFormat{}, ErrNoOutputDevice
	}
	if err := want.Validate(); err != nil {
		return SupportedFormat{}, err
	}

	formats, err := dev.SupportedFormats()
	if err != nil {
		return SupportedFormat{}, fmt.Errorf("querying %s formats: %w", dev.Name(), err)
	}

	for _, sf := range formats {
		if sf.Supports(want) {
			return sf, nil
		}
	}
	return SupportedFormat{}, fmt.Errorf("%w: %s offers nothing for %s", ErrNoCompatibleDeviceFormat, dev.Name(), want)
}

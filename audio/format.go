// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Representation is the numeric type a mixed sample is stored in.
type Representation uint8

const (
	// FixedPoint16 is signed 16-bit integer PCM.
	FixedPoint16 Representation = iota + 1
	// Float32 is 32-bit IEEE float PCM in [-1.0, 1.0].
	Float32
)

func (r Representation) String() string {
	switch r {
	case FixedPoint16:
		return "i16"
	case Float32:
		return "f32"
	default:
		return fmt.Sprintf("Representation(%d)", uint8(r))
	}
}

// BitDepth returns the number of bits a single sample occupies.
func (r Representation) BitDepth() int {
	switch r {
	case FixedPoint16:
		return 16
	case Float32:
		return 32
	default:
		return 0
	}
}

// IsValid reports whether r is one of the supported representations.
func (r Representation) IsValid() bool {
	return r == FixedPoint16 || r == Float32
}

// Encoding describes how a decoder stores its raw samples.
type Encoding uint8

const (
	EncodingInt Encoding = iota + 1
	EncodingFloat
)

func (e Encoding) String() string {
	switch e {
	case EncodingInt:
		return "int"
	case EncodingFloat:
		return "float"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// Spec is the format metadata a decoder reports for its stream, before it is
// mapped onto a Representation.
type Spec struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Encoding   Encoding
}

func (s Spec) String() string {
	return fmt.Sprintf("%dch %dHz %d-bit %s", s.Channels, s.SampleRate, s.BitDepth, s.Encoding)
}

// Format is the canonical format shared by every stream mixed together.
// Two formats are compatible only when they are equal.
type Format struct {
	Channels       int
	SampleRate     int
	Representation Representation
}

func (f Format) String() string {
	return fmt.Sprintf("%dch %dHz %s", f.Channels, f.SampleRate, f.Representation)
}

// Validate checks that every field of f holds a usable value.
func (f Format) Validate() error {
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidFormat, f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if !f.Representation.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f.Representation)
	}
	return nil
}

// DeriveFormat maps decoder metadata onto the canonical Format.
// Only 16-bit integer and 32-bit float samples have a Representation.
func DeriveFormat(spec Spec) (Format, error) {
	var rep Representation
	switch {
	case spec.Encoding == EncodingInt && spec.BitDepth == 16:
		rep = FixedPoint16
	case spec.Encoding == EncodingFloat && spec.BitDepth == 32:
		rep = Float32
	default:
		return Format{}, fmt.Errorf("%w: %d-bit %s", ErrUnsupportedSampleRepresentation, spec.BitDepth, spec.Encoding)
	}

	f := Format{
		Channels:       spec.Channels,
		SampleRate:     spec.SampleRate,
		Representation: rep,
	}
	if err := f.Validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

// Spec returns the decoder metadata that DeriveFormat maps back onto f.
func (f Format) Spec() Spec {
	enc := EncodingInt
	if f.Representation == Float32 {
		enc = EncodingFloat
	}
	return Spec{
		Channels:   f.Channels,
		SampleRate: f.SampleRate,
		BitDepth:   f.Representation.BitDepth(),
		Encoding:   enc,
	}
}

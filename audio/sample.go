// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/drumbox/utils"
)

// Sample is the set of numeric types a stream can be mixed in.
type Sample interface {
	int16 | float32
}

// Arithmetic is the per-representation math the mixer is written against.
// Implementations are zero-size types so that a mixer instantiated with one
// of them carries no runtime dispatch.
type Arithmetic[S Sample] interface {
	// Representation reports which Representation S encodes.
	Representation() Representation
	// Zero is silence.
	Zero() S
	// Scale divides v by n, the number of streams sharing the output.
	Scale(v S, n int) S
	// Add is a saturating addition.
	Add(a, b S) S
	// Clipped reports whether v sits on the representable bound.
	Clipped(v S) bool
}

// Int16Arithmetic implements Arithmetic for FixedPoint16.
type Int16Arithmetic struct{}

func (Int16Arithmetic) Representation() Representation { return FixedPoint16 }
func (Int16Arithmetic) Zero() int16                    { return 0 }

// Scale rounds half away from zero, so 32767/2 becomes 16384.
func (Int16Arithmetic) Scale(v int16, n int) int16 {
	if n <= 1 {
		return v
	}
	d := int32(n)
	x := int32(v)
	if x >= 0 {
		return int16((2*x + d) / (2 * d))
	}
	return int16(-((-2*x + d) / (2 * d)))
}

func (Int16Arithmetic) Add(a, b int16) int16 {
	return utils.SaturateInt16(int32(a) + int32(b))
}

func (Int16Arithmetic) Clipped(v int16) bool {
	return v == math.MaxInt16 || v == math.MinInt16
}

// Float32Arithmetic implements Arithmetic for Float32.
type Float32Arithmetic struct{}

func (Float32Arithmetic) Representation() Representation { return Float32 }
func (Float32Arithmetic) Zero() float32                  { return 0 }

func (Float32Arithmetic) Scale(v float32, n int) float32 {
	if n <= 1 {
		return v
	}
	return v / float32(n)
}

func (Float32Arithmetic) Add(a, b float32) float32 {
	return utils.ClampFloat32(a + b)
}

func (Float32Arithmetic) Clipped(v float32) bool {
	return v <= -1 || v >= 1
}

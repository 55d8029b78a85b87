// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// SaturateInt16 narrows v to int16, pinning out-of-range values to the
// nearest bound instead of wrapping.
func SaturateInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// ClampFloat32 clamps x to [-1, 1].
func ClampFloat32(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}
	return x
}


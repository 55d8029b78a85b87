// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrUnsupportedSampleRepresentation is returned when a source is neither
	// 16-bit integer nor 32-bit float.
	ErrUnsupportedSampleRepresentation = errors.New("unsupported sample representation")

	// ErrFormatMismatch is returned when a source does not match the format a
	// mixer was built for.
	ErrFormatMismatch = errors.New("format mismatch")

	ErrInvalidFormat = errors.New("invalid audio format")
	ErrNilSource     = errors.New("nil source")
)

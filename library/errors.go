// SPDX-License-Identifier: EPL-2.0

package library

import "errors"

var (
	// ErrUnknownInstrument is returned when no sample file exists for an
	// instrument.
	ErrUnknownInstrument = errors.New("unknown instrument")

	// ErrUnknownFormat is returned for files whose extension has no decoder.
	ErrUnknownFormat = errors.New("unknown sample file format")
)

// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrNoOutputDevice is returned when there is no playback device to open.
	ErrNoOutputDevice = errors.New("no output device available")

	// ErrNoCompatibleDeviceFormat is returned when none of the formats a
	// device supports matches the requested one.
	ErrNoCompatibleDeviceFormat = errors.New("no compatible device format")

	// ErrClosed is returned by operations on an output that was closed.
	ErrClosed = errors.New("output closed")
)

// SPDX-License-Identifier: EPL-2.0

package otodev

import (
	"log/slog"
	"time"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

const (
	minSampleRate = 8000
	maxSampleRate = 192000

	defaultBufferSize = 50 * time.Millisecond
)

// Option configures a Device.
type Option func(*Device)

// WithBufferSize sets how much audio the backend buffers ahead. Smaller
// values lower latency at the risk of underruns.
func WithBufferSize(d time.Duration) Option {
	return func(dev *Device) {
		if d > 0 {
			dev.bufferSize = d
		}
	}
}

// WithLogger sets the logger used for backend diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(dev *Device) {
		if l != nil {
			dev.logger = l
		}
	}
}

// supportedFormats is what the oto backend accepts: mono or stereo, signed
// 16-bit or 32-bit float, at any rate the platform mixer can convert.
func supportedFormats() []device.SupportedFormat {
	var out []device.SupportedFormat
	for _, ch := range []int{2, 1} {
		for _, rep := range []audio.Representation{audio.Float32, audio.FixedPoint16} {
			out = append(out, device.SupportedFormat{
				Channels:       ch,
				MinSampleRate:  minSampleRate,
				MaxSampleRate:  maxSampleRate,
				Representation: rep,
			})
		}
	}
	return out
}

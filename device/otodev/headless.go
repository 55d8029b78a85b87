// SPDX-License-Identifier: EPL-2.0

//go:build headless

package otodev

import (
	"log/slog"
	"time"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

// Device is the stand-in used by headless builds. It reports no output
// device so callers fall back to offline rendering.
type Device struct {
	bufferSize time.Duration
	logger     *slog.Logger
}

func New(opts ...Option) *Device {
	d := &Device{bufferSize: defaultBufferSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Name() string { return "oto (headless)" }

func (d *Device) SupportedFormats() ([]device.SupportedFormat, error) {
	return nil, device.ErrNoOutputDevice
}

func (d *Device) Open(audio.Format, device.Callback) (device.Output, error) {
	return nil, device.ErrNoOutputDevice
}

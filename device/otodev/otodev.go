// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package otodev

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

// Device plays through the system audio stack via oto.
//
// oto allows a single context per process, so the first Open fixes the
// output format. Later Opens must ask for the same format.
type Device struct {
	bufferSize time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	ctx    *oto.Context
	format audio.Format
}

// New returns the default system output device. The backend itself is
// initialized lazily by Open.
func New(opts ...Option) *Device {
	d := &Device{
		bufferSize: defaultBufferSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Name() string { return "oto" }

func (d *Device) SupportedFormats() ([]device.SupportedFormat, error) {
	return supportedFormats(), nil
}

func (d *Device) Open(format audio.Format, cb device.Callback) (device.Output, error) {
	ctx, err := d.context(format)
	if err != nil {
		return nil, err
	}

	out := &output{done: make(chan struct{})}
	out.player = ctx.NewPlayer(newPump(format, cb))
	return out, nil
}

func (d *Device) context(format audio.Format) (*oto.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		if format != d.format {
			return nil, fmt.Errorf("%w: backend already running at %s", device.ErrNoCompatibleDeviceFormat, d.format)
		}
		return d.ctx, nil
	}

	var otoFormat oto.Format
	switch format.Representation {
	case audio.FixedPoint16:
		otoFormat = oto.FormatSignedInt16LE
	case audio.Float32:
		otoFormat = oto.FormatFloat32LE
	default:
		return nil, fmt.Errorf("%w: %s", device.ErrNoCompatibleDeviceFormat, format)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       otoFormat,
		BufferSize:   d.bufferSize,
	})
	if err != nil {
		return nil, errors.Join(device.ErrNoOutputDevice, err)
	}
	<-ready

	d.logger.Debug("audio backend ready", "format", format.String(), "buffer", d.bufferSize)
	d.ctx = ctx
	d.format = format
	return ctx, nil
}

type output struct {
	player *oto.Player

	mu     sync.Mutex
	closed bool
	err    error
	done   chan struct{}
}

func (o *output) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return device.ErrClosed
	}
	o.player.Play()
	return nil
}

func (o *output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	o.err = o.player.Err()
	err := o.player.Close()
	close(o.done)
	if err != nil {
		return fmt.Errorf("closing player: %w", err)
	}
	return nil
}

func (o *output) Done() <-chan struct{} { return o.done }

func (o *output) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

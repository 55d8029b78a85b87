// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
	"github.com/ik5/drumbox/mixer"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer mixer.Observer
	onBuffer func(e *Engine, frames int)
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver forwards mixer diagnostics to obs.
func WithObserver(obs mixer.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithBufferHook calls fn on the device goroutine before each buffer is
// mixed, with the engine and the number of frames about to be filled.
// Sources dispatched from fn start at the first frame of that buffer. fn
// may run before Start returns and must not block.
func WithBufferHook(fn func(e *Engine, frames int)) Option {
	return func(o *options) {
		o.onBuffer = fn
	}
}

// Engine owns an output device and the mixer feeding it.
//
// The device calls back into the engine once per buffer and each slot of
// the buffer is filled with one mixed sample. Producers add clips with
// Dispatch from any goroutine.
type Engine struct {
	format    audio.Format
	devFormat device.SupportedFormat
	sink      sink
	out       device.Output
	logger    *slog.Logger
	onBuffer  func(e *Engine, frames int)

	stopped atomic.Bool
	done    chan struct{}
	err     error
}

// Start negotiates format with dev, opens it and begins playback. Any
// failure happens before playback starts and leaves nothing running.
//
// The engine runs until ctx is cancelled or the device stops on its own.
// A context that is never cancelled keeps it running for the life of the
// process.
func Start(ctx context.Context, dev device.Device, format audio.Format, opts ...Option) (*Engine, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	devFormat, err := device.Negotiate(dev, format)
	if err != nil {
		return nil, err
	}

	mixOpts := []mixer.Option{mixer.WithLogger(o.logger)}
	if o.observer != nil {
		mixOpts = append(mixOpts, mixer.WithObserver(o.observer))
	}
	sk, err := newSink(format, mixOpts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		format:    format,
		devFormat: devFormat,
		sink:      sk,
		logger:    o.logger,
		onBuffer:  o.onBuffer,
		done:      make(chan struct{}),
	}

	out, err := dev.Open(format, e.callback)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dev.Name(), err)
	}
	if err := out.Play(); err != nil {
		out.Close()
		return nil, fmt.Errorf("starting %s: %w", dev.Name(), err)
	}
	e.out = out

	e.logger.Info("playback started",
		"device", dev.Name(),
		"format", format.String(),
		"device_format", devFormat.String(),
	)

	go e.watch(ctx)
	return e, nil
}

// callback runs on the device goroutine.
func (e *Engine) callback(b device.Buffer) {
	if e.stopped.Load() || b.Representation != e.format.Representation {
		b.Clear()
		return
	}
	if e.onBuffer != nil {
		e.onBuffer(e, b.Len()/e.format.Channels)
	}
	e.sink.fill(b)
}

func (e *Engine) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		e.stopped.Store(true)
		if err := e.out.Close(); err != nil {
			e.logger.Warn("closing output", "err", err)
		}
	case <-e.out.Done():
		e.stopped.Store(true)
	}

	e.err = e.out.Err()
	if err := e.sink.Close(); err != nil {
		e.logger.Debug("releasing streams", "err", err)
	}
	e.logger.Info("playback stopped", "clips", e.sink.Clips(), "err", e.err)
	close(e.done)
}

// Dispatch registers src with the mixer. On error the caller keeps
// ownership of src; otherwise the engine closes it once it has played.
func (e *Engine) Dispatch(src audio.Source) error {
	if e.stopped.Load() {
		return ErrStopped
	}
	if err := e.sink.Register(src); err != nil {
		return err
	}
	// Lost a race with shutdown: release what was just added.
	if e.stopped.Load() {
		e.sink.Close()
	}
	return nil
}

// ActiveCount returns the number of streams currently mixed.
func (e *Engine) ActiveCount() int { return e.sink.ActiveCount() }

// Clips returns the number of mixed samples that hit the representation
// bound so far.
func (e *Engine) Clips() uint64 { return e.sink.Clips() }

// Format returns the common format every dispatched source must match.
func (e *Engine) Format() audio.Format { return e.format }

// DeviceFormat returns the device configuration chosen during negotiation.
func (e *Engine) DeviceFormat() device.SupportedFormat { return e.devFormat }

// Done is closed once playback has stopped.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Join blocks until playback stops and reports why the device stopped,
// or nil after a cancellation.
func (e *Engine) Join() error {
	<-e.done
	return e.err
}

// SPDX-License-Identifier: EPL-2.0

package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/drumbox/audio"
)

// Dispatcher accepts a fresh source for playback. On error the source
// still belongs to the caller.
type Dispatcher interface {
	Dispatch(src audio.Source) error
}

// SourceProvider hands out a new source for an instrument each call.
type SourceProvider interface {
	Source(instrument string) (audio.Source, error)
}

// Observer is told about every step and every failed dispatch. Methods
// must not block.
type Observer interface {
	StepPlayed(step, dispatched int)
	DispatchFailed(instrument string)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLoop makes Run start over after the last step instead of returning.
func WithLoop(loop bool) Option {
	return func(d *Driver) { d.loop = loop }
}

// WithLogger sets the logger used for dispatch failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// Driver plays a Pattern by dispatching instrument sources on a timer.
type Driver struct {
	pattern  Pattern
	dispatch Dispatcher
	sources  SourceProvider
	loop     bool
	logger   *slog.Logger
	observer Observer

	failures atomic.Uint64
	warned   sync.Map // instrument -> struct{}
}

// NewDriver validates p and returns a driver for it.
func NewDriver(p Pattern, d Dispatcher, sp SourceProvider, opts ...Option) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if d == nil || sp == nil {
		return nil, fmt.Errorf("%w: driver needs a dispatcher and a source provider", ErrInvalidPattern)
	}

	drv := &Driver{
		pattern:  p,
		dispatch: d,
		sources:  sp,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(drv)
	}
	return drv, nil
}

// Pattern returns the pattern being played.
func (d *Driver) Pattern() Pattern { return d.pattern }

// Failures returns how many instrument hits could not be dispatched.
func (d *Driver) Failures() uint64 { return d.failures.Load() }

// Tick dispatches every instrument active on step and returns how many
// were accepted. Failures are counted and never stop the tick. The first
// failure of each instrument is logged as a warning, later ones at debug.
func (d *Driver) Tick(step int) int {
	dispatched := 0
	for _, inst := range d.pattern.Active(step) {
		if err := d.hit(inst); err != nil {
			d.failures.Add(1)
			level := slog.LevelDebug
			if _, seen := d.warned.LoadOrStore(inst, struct{}{}); !seen {
				level = slog.LevelWarn
			}
			d.logger.Log(context.Background(), level, "dispatch failed",
				"pattern", d.pattern.Name, "step", step, "instrument", inst, "err", err)
			if d.observer != nil {
				d.observer.DispatchFailed(inst)
			}
			continue
		}
		dispatched++
	}

	if d.observer != nil {
		d.observer.StepPlayed(step, dispatched)
	}
	return dispatched
}

func (d *Driver) hit(instrument string) error {
	src, err := d.sources.Source(instrument)
	if err != nil {
		return err
	}
	if err := d.dispatch.Dispatch(src); err != nil {
		src.Close()
		return err
	}
	return nil
}

// Run plays the pattern, one step per StepDelay. Without looping it
// returns nil after the last step; otherwise it runs until ctx is done and
// returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	delay := StepDelay(d.pattern.BeatsPerMinute)
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	d.logger.Info("pattern started",
		"pattern", d.pattern.Name,
		"steps", d.pattern.StepCount,
		"bpm", d.pattern.BeatsPerMinute,
		"step_delay", delay,
		"loop", d.loop,
	)

	step := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.Tick(step)

		step++
		if step == d.pattern.StepCount {
			if !d.loop {
				return nil
			}
			step = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package drumbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device/wavout"
	"github.com/ik5/drumbox/engine"
	"github.com/ik5/drumbox/mixer"
	"github.com/ik5/drumbox/sequencer"
)

// ErrNothingToRender is returned when a render would produce no frames.
var ErrNothingToRender = errors.New("nothing to render")

// Stats summarizes a finished render.
type Stats struct {
	// Frames is the number of frames written.
	Frames int
	// Clips counts mixed samples that hit the representation bound.
	Clips uint64
	// Failures counts pattern hits that could not be dispatched.
	Failures uint64
}

// RenderOption configures Render and RenderPattern.
type RenderOption func(*renderOptions)

type renderOptions struct {
	logger   *slog.Logger
	observer mixer.Observer
	seqObs   sequencer.Observer
}

// WithLogger sets the logger for the engine and the sequencer.
func WithLogger(l *slog.Logger) RenderOption {
	return func(o *renderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMixerObserver forwards mixer diagnostics to obs.
func WithMixerObserver(obs mixer.Observer) RenderOption {
	return func(o *renderOptions) { o.observer = obs }
}

// WithSequencerObserver forwards step diagnostics to obs.
func WithSequencerObserver(obs sequencer.Observer) RenderOption {
	return func(o *renderOptions) { o.seqObs = obs }
}

func buildOptions(opts []RenderOption) renderOptions {
	o := renderOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o renderOptions) engineOptions(hook func(*engine.Engine, int)) []engine.Option {
	eopts := []engine.Option{engine.WithLogger(o.logger), engine.WithBufferHook(hook)}
	if o.observer != nil {
		eopts = append(eopts, engine.WithObserver(o.observer))
	}
	return eopts
}

// Render mixes sources, all starting at the first frame, and writes
// length of the result to w as a WAV file in format. Render owns every
// source and closes each one, whether or not it played.
func Render(ctx context.Context, w io.WriteSeeker, format audio.Format, length time.Duration, sources []audio.Source, opts ...RenderOption) (Stats, error) {
	o := buildOptions(opts)

	var (
		pending    = sources
		dispatched []error
		frames     int
	)
	hook := func(e *engine.Engine, n int) {
		frames += n
		for _, src := range pending {
			if err := e.Dispatch(src); err != nil {
				dispatched = append(dispatched, err)
				closeAll([]audio.Source{src})
			}
		}
		pending = nil
	}

	dev := wavout.New(w, length, wavout.WithLogger(o.logger))
	eng, err := engine.Start(ctx, dev, format, o.engineOptions(hook)...)
	if err != nil {
		closeAll(sources)
		return Stats{}, err
	}

	err = eng.Join()
	// A render cut short before the first buffer never saw the sources.
	closeAll(pending)

	stats := Stats{Frames: frames, Clips: eng.Clips()}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil && len(dispatched) > 0 {
		err = fmt.Errorf("dispatching sources: %w", errors.Join(dispatched...))
	}
	return stats, err
}

// RenderPattern plays p loops times into w as a WAV file in format. Steps
// land on exact frame offsets: step i starts at frame i*rate*60/bpm.
func RenderPattern(ctx context.Context, w io.WriteSeeker, format audio.Format, p sequencer.Pattern, sp sequencer.SourceProvider, loops int, opts ...RenderOption) (Stats, error) {
	if err := format.Validate(); err != nil {
		return Stats{}, err
	}
	if loops <= 0 {
		return Stats{}, fmt.Errorf("%w: %d loops", ErrNothingToRender, loops)
	}
	o := buildOptions(opts)

	target := &engineTarget{}
	seqOpts := []sequencer.Option{sequencer.WithLogger(o.logger)}
	if o.seqObs != nil {
		seqOpts = append(seqOpts, sequencer.WithObserver(o.seqObs))
	}
	drv, err := sequencer.NewDriver(p, target, sp, seqOpts...)
	if err != nil {
		return Stats{}, err
	}

	stepFrames := int(sequencer.StepDelay(p.BeatsPerMinute) * time.Duration(format.SampleRate) / time.Second)
	if stepFrames <= 0 {
		return Stats{}, fmt.Errorf("%w: %d bpm is too fast for %d Hz", ErrNothingToRender, p.BeatsPerMinute, format.SampleRate)
	}
	total := stepFrames * p.StepCount * loops

	var step, frames int
	hook := func(e *engine.Engine, n int) {
		target.eng = e
		drv.Tick(step % p.StepCount)
		step++
		frames += n
	}

	dev := wavout.New(w, 0,
		wavout.WithFrames(total),
		wavout.WithChunkFrames(stepFrames),
		wavout.WithLogger(o.logger),
	)
	eng, err := engine.Start(ctx, dev, format, o.engineOptions(hook)...)
	if err != nil {
		return Stats{}, err
	}

	err = eng.Join()
	stats := Stats{Frames: frames, Clips: eng.Clips(), Failures: drv.Failures()}
	if err == nil {
		err = ctx.Err()
	}
	return stats, err
}

// engineTarget lets the driver dispatch into the engine that is calling
// the buffer hook.
type engineTarget struct {
	eng *engine.Engine
}

func (t *engineTarget) Dispatch(src audio.Source) error {
	return t.eng.Dispatch(src)
}

func closeAll(sources []audio.Source) {
	for _, src := range sources {
		if src != nil {
			src.Close()
		}
	}
}

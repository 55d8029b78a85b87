// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ik5/drumbox/audio"
)

// Observer receives mixer diagnostics. Methods are called from the goroutine
// driving Mix or Register and must not block. StreamAdded runs while the
// mixer lock is held, so it is always reported before the StreamsRemoved
// call that covers the same stream.
type Observer interface {
	StreamAdded()
	StreamsRemoved(n int)
	Clipped()
}

// Option configures a Mixer during construction.
type Option func(*options)

type options struct {
	observer Observer
	logger   *slog.Logger
}

// WithObserver attaches an Observer that is told about stream registration,
// removal and clipping.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithLogger sets the logger used for stream removal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

// Mixer is the registry of active streams and the algorithm that folds them
// into one output sample.
//
// Every stream in a Mixer shares the Mixer's format, which is fixed at
// construction. All access to the stream set goes through a single mutex,
// held for exactly one Register or one Mix call. Decoding work for a new
// stream happens before the lock is taken, and exhausted streams are closed
// after it is released.
//
// Mix is called once per interleaved slot. A registered stream waits until
// the next frame boundary before it joins, so its first sample always lands
// on channel 0.
//
// All exported methods are safe for concurrent use.
type Mixer[S audio.Sample, A audio.Arithmetic[S]] struct {
	format   audio.Format
	arith    A
	observer Observer
	logger   *slog.Logger

	mu      sync.Mutex
	streams []*audio.Stream[S]
	pending []*audio.Stream[S]
	slot    int // channel index of the next Mix call

	active atomic.Int64
	clips  atomic.Uint64
}

// Int16 mixes FixedPoint16 streams.
type Int16 = Mixer[int16, audio.Int16Arithmetic]

// Float32 mixes Float32 streams.
type Float32 = Mixer[float32, audio.Float32Arithmetic]

// New creates an empty Mixer bound to format. The representation of format
// must match the one A implements.
func New[S audio.Sample, A audio.Arithmetic[S]](format audio.Format, opts ...Option) (*Mixer[S, A], error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	var arith A
	if format.Representation != arith.Representation() {
		return nil, fmt.Errorf("%w: mixer computes in %s, format is %s",
			audio.ErrFormatMismatch, arith.Representation(), format.Representation)
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Mixer[S, A]{
		format:   format,
		arith:    arith,
		observer: o.observer,
		logger:   o.logger,
	}, nil
}

// NewInt16 is New for FixedPoint16 formats.
func NewInt16(format audio.Format, opts ...Option) (*Int16, error) {
	return New[int16, audio.Int16Arithmetic](format, opts...)
}

// NewFloat32 is New for Float32 formats.
func NewFloat32(format audio.Format, opts ...Option) (*Float32, error) {
	return New[float32, audio.Float32Arithmetic](format, opts...)
}

// Format returns the common format every registered stream must match.
func (m *Mixer[S, A]) Format() audio.Format { return m.format }

// Register validates src against the mixer format and adds it to the active
// set. On success the mixer owns src and closes it once it is exhausted. On
// failure src is left untouched and still belongs to the caller.
func (m *Mixer[S, A]) Register(src audio.Source) error {
	if src == nil {
		return audio.ErrNilSource
	}

	f, err := audio.DeriveFormat(src.Spec())
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrFormatMismatch, err)
	}
	if f != m.format {
		return fmt.Errorf("%w: source is %s, mixer is %s", audio.ErrFormatMismatch, f, m.format)
	}

	r, ok := src.(audio.Reader[S])
	if !ok {
		return fmt.Errorf("%w: %T does not yield %s samples", audio.ErrFormatMismatch, src, m.format.Representation)
	}

	// Priming reads from the source, so it happens outside the lock.
	st := audio.NewStream(r)
	if st.Exhausted() {
		// Nothing to play; the source is ours now, so release it here.
		if err := st.Close(); err != nil {
			m.logger.Debug("closing empty stream", "err", err)
		}
		return nil
	}

	m.mu.Lock()
	if m.observer != nil {
		m.observer.StreamAdded()
	}
	m.pending = append(m.pending, st)
	m.active.Store(int64(len(m.streams) + len(m.pending)))
	m.mu.Unlock()

	return nil
}

// ActiveCount returns the number of streams that were active after the last
// Register or Mix. Streams waiting for a frame boundary are counted.
func (m *Mixer[S, A]) ActiveCount() int {
	return int(m.active.Load())
}

// Clips returns how many mixed samples landed on the representation bound.
func (m *Mixer[S, A]) Clips() uint64 {
	return m.clips.Load()
}

// Mix pulls one sample from every stream active when the call starts and
// returns their equal-weight, saturating sum. Streams that run dry during
// the pass are removed once the pass is complete. With no active streams
// Mix returns silence.
//
// Successive calls walk the channels of one frame in order; pending streams
// are admitted only on the call for channel 0.
func (m *Mixer[S, A]) Mix() S {
	m.mu.Lock()

	if m.slot == 0 && len(m.pending) > 0 {
		m.streams = append(m.streams, m.pending...)
		clear(m.pending)
		m.pending = m.pending[:0]
	}
	m.slot++
	if m.slot == m.format.Channels {
		m.slot = 0
	}

	n := len(m.streams)
	if n == 0 {
		m.mu.Unlock()
		return m.arith.Zero()
	}

	acc := m.arith.Zero()
	exhausted := 0
	for _, st := range m.streams {
		v, ok := st.Next()
		if ok {
			acc = m.arith.Add(acc, m.arith.Scale(v, n))
		}
		if st.Exhausted() {
			exhausted++
		}
	}

	var removed []*audio.Stream[S]
	if exhausted > 0 {
		removed = m.sweepLocked(exhausted)
	}
	m.mu.Unlock()

	if len(removed) > 0 {
		m.release(removed)
	}

	if m.arith.Clipped(acc) {
		m.clips.Add(1)
		if m.observer != nil {
			m.observer.Clipped()
		}
	}
	return acc
}

// sweepLocked drops exhausted streams from the active set and returns them.
func (m *Mixer[S, A]) sweepLocked(exhausted int) []*audio.Stream[S] {
	removed := make([]*audio.Stream[S], 0, exhausted)
	kept := m.streams[:0]
	for _, st := range m.streams {
		if st.Exhausted() {
			removed = append(removed, st)
			continue
		}
		kept = append(kept, st)
	}
	clear(m.streams[len(kept):])
	m.streams = kept
	m.active.Store(int64(len(kept) + len(m.pending)))
	return removed
}

func (m *Mixer[S, A]) release(removed []*audio.Stream[S]) {
	for _, st := range removed {
		if err := st.Err(); err != nil {
			m.logger.Debug("stream ended early", "err", err)
		}
		if err := st.Close(); err != nil {
			m.logger.Debug("closing stream", "err", err)
		}
	}
	if m.observer != nil {
		m.observer.StreamsRemoved(len(removed))
	}
}

// Fill writes one mixed sample into every slot of dst.
func (m *Mixer[S, A]) Fill(dst []S) {
	for i := range dst {
		dst[i] = m.Mix()
	}
}

// Close releases every active and pending stream. The mixer stays usable
// and starts out empty again. The frame position is kept, so later streams
// still join on channel 0.
func (m *Mixer[S, A]) Close() error {
	m.mu.Lock()
	removed := append(m.streams, m.pending...)
	m.streams = nil
	m.pending = nil
	m.active.Store(0)
	m.mu.Unlock()

	var firstErr error
	for _, st := range removed {
		if err := st.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(removed) > 0 && m.observer != nil {
		m.observer.StreamsRemoved(len(removed))
	}
	return firstErr
}

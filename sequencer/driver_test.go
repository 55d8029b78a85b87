// SPDX-License-Identifier: EPL-2.0

package sequencer_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/internal/audiotest"
	"github.com/ik5/drumbox/sequencer"
)

var (
	monoI16 = audio.Format{Channels: 1, SampleRate: 8000, Representation: audio.FixedPoint16}

	errRejected = errors.New("rejected")
	errNoClip   = errors.New("no clip")
)

type recordingDispatcher struct {
	mu     sync.Mutex
	got    []audio.Source
	reject bool
}

func (d *recordingDispatcher) Dispatch(src audio.Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reject {
		return errRejected
	}
	d.got = append(d.got, src)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.got)
}

type fakeProvider struct {
	mu      sync.Mutex
	asked   []string
	issued  []*audiotest.MockSource[int16]
	missing map[string]bool
}

func (p *fakeProvider) Source(instrument string) (audio.Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.asked = append(p.asked, instrument)
	if p.missing[instrument] {
		return nil, errNoClip
	}
	src := audiotest.NewConstantSource(monoI16.Spec(), 4, int16(1))
	p.issued = append(p.issued, src)
	return src, nil
}

type stepObserver struct {
	mu     sync.Mutex
	steps  []int
	failed []string
}

func (o *stepObserver) StepPlayed(step, _ int) {
	o.mu.Lock()
	o.steps = append(o.steps, step)
	o.mu.Unlock()
}

func (o *stepObserver) DispatchFailed(instrument string) {
	o.mu.Lock()
	o.failed = append(o.failed, instrument)
	o.mu.Unlock()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastPattern() sequencer.Pattern {
	return sequencer.Pattern{
		Name:           "fast",
		StepCount:      4,
		BeatsPerMinute: 60000,
		Tracks: []sequencer.Track{
			{Instrument: "kick", Steps: []int{1, 0, 1, 0}},
			{Instrument: "snare", Steps: []int{0, 1, 0, 1}},
			{Instrument: "hihat", Steps: []int{1, 1, 1, 1}},
		},
	}
}

func TestNewDriver_Errors(t *testing.T) {
	t.Parallel()

	_, err := sequencer.NewDriver(sequencer.Pattern{Name: "empty"}, &recordingDispatcher{}, &fakeProvider{})
	require.ErrorIs(t, err, sequencer.ErrInvalidPattern)

	_, err = sequencer.NewDriver(fastPattern(), nil, &fakeProvider{})
	require.ErrorIs(t, err, sequencer.ErrInvalidPattern)

	_, err = sequencer.NewDriver(fastPattern(), &recordingDispatcher{}, nil)
	require.ErrorIs(t, err, sequencer.ErrInvalidPattern)
}

func TestDriver_Tick(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{}
	prov := &fakeProvider{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, prov, sequencer.WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, 2, drv.Tick(0))
	assert.Equal(t, []string{"kick", "hihat"}, prov.asked)
	assert.Equal(t, 2, disp.count())
	assert.Zero(t, drv.Failures())
}

func TestDriver_TickFailuresAreCounted(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{}
	prov := &fakeProvider{missing: map[string]bool{"snare": true}}
	obs := &stepObserver{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, prov,
		sequencer.WithLogger(quietLogger()), sequencer.WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, 1, drv.Tick(1))
	assert.Equal(t, uint64(1), drv.Failures())
	assert.Equal(t, []string{"snare"}, obs.failed)
	assert.Equal(t, []int{1}, obs.steps)
}

func TestDriver_RejectedSourceIsClosed(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{reject: true}
	prov := &fakeProvider{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, prov, sequencer.WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Zero(t, drv.Tick(0))
	assert.Equal(t, uint64(2), drv.Failures())
	require.Len(t, prov.issued, 2)
	for _, src := range prov.issued {
		assert.Equal(t, 1, src.CloseCount())
	}
}

func TestDriver_RunOnce(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{}
	obs := &stepObserver{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, &fakeProvider{},
		sequencer.WithLogger(quietLogger()), sequencer.WithObserver(obs))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, drv.Run(ctx))
	assert.Equal(t, []int{0, 1, 2, 3}, obs.steps)
	// kick 2 + snare 2 + hihat 4
	assert.Equal(t, 8, disp.count())
}

func TestDriver_RunLoopsUntilCancelled(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, &fakeProvider{},
		sequencer.WithLogger(quietLogger()), sequencer.WithLoop(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- drv.Run(ctx) }()

	require.Eventually(t, func() bool { return disp.count() > 8 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDriver_RunCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	disp := &recordingDispatcher{}
	drv, err := sequencer.NewDriver(fastPattern(), disp, &fakeProvider{}, sequencer.WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, drv.Run(ctx), context.Canceled)
	assert.Zero(t, disp.count())
}

func TestDriver_MissingInstrumentWarnsOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	prov := &fakeProvider{missing: map[string]bool{"hihat": true}}
	drv, err := sequencer.NewDriver(fastPattern(), &recordingDispatcher{}, prov, sequencer.WithLogger(logger))
	require.NoError(t, err)

	for step := range 4 {
		drv.Tick(step)
	}

	assert.EqualValues(t, 4, drv.Failures())
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
	assert.Contains(t, buf.String(), "instrument=hihat")
}

// SPDX-License-Identifier: EPL-2.0

package wavout

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3

	defaultChunkFrames = 512
	maxChannels        = 8
	minSampleRate      = 1
	maxSampleRate      = 384000
)

// Option configures a Device.
type Option func(*Device)

// WithChunkFrames sets how many frames each callback buffer holds.
func WithChunkFrames(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.chunkFrames = n
		}
	}
}

// WithFrames renders exactly n frames, overriding the length given to New.
func WithFrames(n int) Option {
	return func(d *Device) {
		if n >= 0 {
			d.frames = n
		}
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.logger = l
		}
	}
}

// Device renders the callback stream into a WAV file instead of playing
// it. Rendering runs as fast as the callback allows and stops after the
// configured length.
type Device struct {
	w           io.WriteSeeker
	length      time.Duration
	chunkFrames int
	frames      int
	logger      *slog.Logger
}

// New returns a device that writes length worth of audio to w. The
// caller keeps ownership of w.
func New(w io.WriteSeeker, length time.Duration, opts ...Option) *Device {
	d := &Device{
		w:           w,
		length:      length,
		chunkFrames: defaultChunkFrames,
		frames:      -1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Name() string { return "wav" }

// SupportedFormats reports both representations for up to eight channels.
func (d *Device) SupportedFormats() ([]device.SupportedFormat, error) {
	var out []device.SupportedFormat
	for ch := 1; ch <= maxChannels; ch++ {
		for _, rep := range []audio.Representation{audio.FixedPoint16, audio.Float32} {
			out = append(out, device.SupportedFormat{
				Channels:       ch,
				MinSampleRate:  minSampleRate,
				MaxSampleRate:  maxSampleRate,
				Representation: rep,
			})
		}
	}
	return out, nil
}

func (d *Device) Open(format audio.Format, cb device.Callback) (device.Output, error) {
	if d.w == nil {
		return nil, device.ErrNoOutputDevice
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	wavFormat := wavFormatPCM
	if format.Representation == audio.Float32 {
		wavFormat = wavFormatFloat
	}

	frames := d.frames
	if frames < 0 {
		frames = int(d.length * time.Duration(format.SampleRate) / time.Second)
	}
	return &output{
		format: format,
		cb:     cb,
		frames: frames,
		chunk:  d.chunkFrames,
		logger: d.logger,
		enc: wav.NewEncoder(d.w, format.SampleRate, format.Representation.BitDepth(),
			format.Channels, wavFormat),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

type output struct {
	format audio.Format
	cb     device.Callback
	frames int
	chunk  int
	logger *slog.Logger
	enc    *wav.Encoder

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
	err       error
}

func (o *output) Play() error {
	select {
	case <-o.stop:
		return device.ErrClosed
	default:
	}
	o.startOnce.Do(func() { go o.render() })
	return nil
}

func (o *output) render() {
	defer close(o.done)

	ch := o.format.Channels
	buf := device.Buffer{Representation: o.format.Representation}
	switch o.format.Representation {
	case audio.FixedPoint16:
		buf.Int16 = make([]int16, o.chunk*ch)
	case audio.Float32:
		buf.Float32 = make([]float32, o.chunk*ch)
	}
	ib := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: ch, SampleRate: o.format.SampleRate},
		Data:   make([]int, o.chunk*ch),
	}

	var err error
	written := 0
	for written < o.frames {
		select {
		case <-o.stop:
			o.err = o.finish(nil)
			return
		default:
		}

		n := min(o.chunk, o.frames-written)
		part := slice(buf, n*ch)
		o.cb(part)
		ib.Data = ib.Data[:n*ch]
		toInts(ib.Data, part)

		if err = o.enc.Write(ib); err != nil {
			break
		}
		written += n
	}

	o.err = o.finish(err)
	o.logger.Debug("wav render finished", "frames", written, "format", o.format.String())
}

func (o *output) finish(err error) error {
	// The encoder emits its header on the first Write, so an empty write
	// makes a zero-length render a valid file.
	empty := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: o.format.Channels, SampleRate: o.format.SampleRate},
	}
	if werr := o.enc.Write(empty); werr != nil {
		err = errors.Join(err, werr)
	}
	if cerr := o.enc.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return fmt.Errorf("rendering wav: %w", err)
	}
	return nil
}

func slice(b device.Buffer, n int) device.Buffer {
	switch b.Representation {
	case audio.FixedPoint16:
		b.Int16 = b.Int16[:n]
	case audio.Float32:
		b.Float32 = b.Float32[:n]
	}
	return b
}

// toInts stores samples the way the encoder writes them: int16 values for
// PCM and the raw IEEE bits for float, which the encoder emits as int32.
func toInts(dst []int, b device.Buffer) {
	switch b.Representation {
	case audio.FixedPoint16:
		for i, v := range b.Int16 {
			dst[i] = int(v)
		}
	case audio.Float32:
		for i, v := range b.Float32 {
			dst[i] = int(int32(math.Float32bits(v)))
		}
	}
}

// Close stops rendering and finalizes the file. A render that was never
// started still gets a valid header.
func (o *output) Close() error {
	o.stopOnce.Do(func() {
		close(o.stop)
		o.startOnce.Do(func() {
			o.err = o.finish(nil)
			close(o.done)
		})
	})
	<-o.done
	return nil
}

func (o *output) Done() <-chan struct{} { return o.done }

// Err is valid once Done is closed.
func (o *output) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Sound is a fully decoded clip that can be replayed any number of times.
type Sound interface {
	Spec() Spec
	Duration() time.Duration
	// NewSource returns an independent Source positioned at the start.
	NewSource() Source
}

// Clip holds decoded samples in memory.
type Clip[S Sample] struct {
	spec Spec
	data []S
}

// NewClip wraps already decoded, interleaved samples.
func NewClip[S Sample](spec Spec, data []S) *Clip[S] {
	return &Clip[S]{spec: spec, data: data}
}

// ReadClip drains src into memory and closes it.
func ReadClip[S Sample](src Reader[S]) (*Clip[S], error) {
	defer src.Close()

	size := src.BufSize()
	if size <= 0 {
		size = defaultStreamBuf
	}
	buf := make([]S, size)
	var data []S

	for empty := 0; empty < maxEmptyReads; {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			empty = 0
		} else {
			empty++
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading clip: %w", err)
		}
	}

	return &Clip[S]{spec: src.Spec(), data: data}, nil
}

// Load decodes every sample of src into a Sound. src is closed.
func Load(src Source) (Sound, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	switch r := src.(type) {
	case Reader[int16]:
		return ReadClip(r)
	case Reader[float32]:
		return ReadClip(r)
	default:
		src.Close()
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSampleRepresentation, src)
	}
}

func (c *Clip[S]) Spec() Spec { return c.spec }

// Len is the number of interleaved samples.
func (c *Clip[S]) Len() int { return len(c.data) }

func (c *Clip[S]) Duration() time.Duration {
	if c.spec.Channels <= 0 || c.spec.SampleRate <= 0 {
		return 0
	}
	frames := len(c.data) / c.spec.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.spec.SampleRate)
}

func (c *Clip[S]) NewSource() Source { return c.Reader() }

// Reader returns a typed reader positioned at the start of the clip.
func (c *Clip[S]) Reader() Reader[S] {
	return &clipReader[S]{clip: c}
}

type clipReader[S Sample] struct {
	clip *Clip[S]
	pos  int
}

func (r *clipReader[S]) Spec() Spec   { return r.clip.spec }
func (r *clipReader[S]) BufSize() int { return defaultStreamBuf }
func (r *clipReader[S]) Close() error { return nil }

func (r *clipReader[S]) ReadSamples(dst []S) (int, error) {
	if r.pos >= len(r.clip.data) {
		return 0, io.EOF
	}
	n := copy(dst, r.clip.data[r.pos:])
	r.pos += n
	if r.pos >= len(r.clip.data) {
		return n, io.EOF
	}
	return n, nil
}

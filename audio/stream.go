// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

const (
	defaultStreamBuf = 1024

	// maxEmptyReads bounds how many (0, nil) reads a stream tolerates before
	// it gives up on the source.
	maxEmptyReads = 4
)

// Stream pulls samples one at a time out of a Reader.
//
// A Stream owns its Reader: once the reader reports io.EOF or any other
// error the stream is exhausted, and Close releases the reader. Decode
// errors are not propagated; they end the stream early and are kept for
// inspection through Err.
//
// A Stream is not safe for concurrent use.
type Stream[S Sample] struct {
	src    Reader[S]
	buf    []S
	pos    int
	end    int
	eof    bool
	err    error
	closed bool
}

// NewStream wraps src and performs the first read, so that the cost of
// priming the buffer is paid by the caller and not by whoever drains it.
func NewStream[S Sample](src Reader[S]) *Stream[S] {
	size := src.BufSize()
	if size <= 0 {
		size = defaultStreamBuf
	}
	s := &Stream[S]{
		src: src,
		buf: make([]S, size),
	}
	s.fill()
	return s
}

func (s *Stream[S]) fill() {
	s.pos, s.end = 0, 0
	for range maxEmptyReads {
		n, err := s.src.ReadSamples(s.buf)
		n = max(0, min(n, len(s.buf)))
		s.end = n

		if err != nil {
			s.eof = true
			if !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("%w", err)
			}
			return
		}
		if n > 0 {
			return
		}
	}
	s.eof = true
}

// Next returns the next interleaved sample, or false once the stream is
// exhausted. Samples come out in the order the source produced them.
func (s *Stream[S]) Next() (S, bool) {
	if s.pos >= s.end {
		if s.eof {
			var zero S
			return zero, false
		}
		s.fill()
		if s.pos >= s.end {
			s.eof = true
			var zero S
			return zero, false
		}
	}

	v := s.buf[s.pos]
	s.pos++
	// Refill right away so Exhausted is accurate as soon as the last sample
	// has been handed out.
	if s.pos >= s.end && !s.eof {
		s.fill()
	}
	return v, true
}

// Exhausted reports whether every buffered sample has been consumed and the
// source has nothing more to give.
func (s *Stream[S]) Exhausted() bool {
	return s.eof && s.pos >= s.end
}

// Err returns the decode error that ended the stream, if any.
func (s *Stream[S]) Err() error { return s.err }

// Spec returns the metadata of the underlying source.
func (s *Stream[S]) Spec() Spec { return s.src.Spec() }

// Close releases the underlying source. It is safe to call more than once.
func (s *Stream[S]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

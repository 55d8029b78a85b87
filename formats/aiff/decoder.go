// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/utils"
)

const defaultBufSize = 4096

// aiffReader is the part of aiff.Decoder the source needs, split out so
// tests can stand in for it.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source yields the big-endian 16-bit samples of an AIFF file as int16.
type source struct {
	dec    aiffReader
	spec   audio.Spec
	intBuf *goaudio.IntBuffer
}

func (s *source) Spec() audio.Spec { return s.spec }
func (s *source) Close() error     { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return defaultBufSize
}

func (s *source) ReadSamples(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	n = min(n, len(dst))
	for i := range n {
		dst[i] = utils.SaturateInt16(int32(s.intBuf.Data[i]))
	}

	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("reading aiff data: %w", err)
		}
		return 0, io.EOF
	}
	// A short read without an error means the sound data chunk is done.
	if n < len(dst) && err == nil {
		return n, io.EOF
	}
	return n, err
}

// Decoder reads 16-bit PCM AIFF files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := utils.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d-bit AIFF", audio.ErrUnsupportedSampleRepresentation, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec: dec,
		spec: audio.Spec{
			Channels:   format.NumChannels,
			SampleRate: format.SampleRate,
			BitDepth:   16,
			Encoding:   audio.EncodingInt,
		},
	}, nil
}

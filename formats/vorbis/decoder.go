// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/drumbox/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec  oggReader
	spec audio.Spec
}

func (s *source) Spec() audio.Spec { return s.spec }
func (s *source) Close() error     { return nil }
func (s *source) BufSize() int     { return 4096 }

// ReadSamples passes dst straight to the decoder, which fills it with
// interleaved float samples and returns how many values it wrote.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
	return n, err
}

// Decoder reads Ogg Vorbis files as 32-bit float.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening vorbis: %w", err)
	}

	return &source{
		dec: dec,
		spec: audio.Spec{
			Channels:   dec.Channels(),
			SampleRate: dec.SampleRate(),
			BitDepth:   32,
			Encoding:   audio.EncodingFloat,
		},
	}, nil
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/utils"
)

const (
	formatPCM       = 1
	formatIEEEFloat = 3

	defaultBufSize = 4096
)

// source streams the data chunk, decoding one sample per width bytes.
type source[S audio.Sample] struct {
	r      io.Reader
	spec   audio.Spec
	width  int
	decode func([]byte) S
	raw    []byte
}

func (s *source[S]) Spec() audio.Spec { return s.spec }
func (s *source[S]) BufSize() int     { return defaultBufSize }
func (s *source[S]) Close() error     { return nil }

func (s *source[S]) ReadSamples(dst []S) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * s.width
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	raw := s.raw[:need]

	n, err := io.ReadFull(s.r, raw)
	samples := n / s.width
	for i := range samples {
		dst[i] = s.decode(raw[i*s.width:])
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// A trailing partial sample is dropped.
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("reading wav data: %w", err)
	}
}

func decodeInt16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// Decoder reads 16-bit integer PCM and 32-bit IEEE float WAV files.
// Other layouts are rejected with audio.ErrUnsupportedSampleRepresentation.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := utils.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	spec := audio.Spec{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}

	switch {
	case dec.WavAudioFormat == formatPCM && dec.BitDepth == 16:
		spec.Encoding = audio.EncodingInt
	case dec.WavAudioFormat == formatIEEEFloat && dec.BitDepth == 32:
		spec.Encoding = audio.EncodingFloat
	default:
		return nil, fmt.Errorf("%w: wav format %d at %d bits",
			audio.ErrUnsupportedSampleRepresentation, dec.WavAudioFormat, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrNoPCMData
	}
	data := io.LimitReader(dec.PCMChunk, int64(dec.PCMChunk.Size))

	if spec.Encoding == audio.EncodingFloat {
		return &source[float32]{r: data, spec: spec, width: 4, decode: decodeFloat32}, nil
	}
	return &source[int16]{r: data, spec: spec, width: 2, decode: decodeInt16}, nil
}

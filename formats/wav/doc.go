// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV files into typed sample readers.
//
// Chunk parsing is done by github.com/go-audio/wav. The data chunk is then
// streamed directly, so samples keep their stored representation:
//
//   - PCM 16-bit files yield an audio.Reader[int16]
//   - IEEE float 32-bit files yield an audio.Reader[float32]
//
// Any other layout is rejected with audio.ErrUnsupportedSampleRepresentation,
// since the mixer has no representation to carry it in.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, audio.ErrUnsupportedSampleRepresentation) {
//	    // e.g. a 24-bit recording
//	}
//	clip, err := audio.Load(src)
//
// Inputs that cannot seek are buffered in memory first.
package wav

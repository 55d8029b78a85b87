// SPDX-License-Identifier: EPL-2.0

// Package mixer sums a changing set of sample streams into one output
// stream.
//
// A Mixer is created for one audio.Format and accepts only sources that
// match it exactly:
//
//	m, err := mixer.NewFloat32(audio.Format{Channels: 2, SampleRate: 44100, Representation: audio.Float32})
//	err = m.Register(src) // audio.ErrFormatMismatch on any difference
//
// Each call to Mix takes one sample from every active stream, divides it by
// the number of active streams and accumulates with a saturating add.
// Streams that run out are dropped at the end of the pass:
//
//	out := make([]float32, 512)
//	m.Fill(out)
//
// A mixed sample that lands on the representation bound counts as a clip.
// Clipping is not an error; it is reported through Clips and an optional
// Observer.
package mixer

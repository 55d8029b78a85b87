// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Vorbis is decoded to floating point, so every file is an
// audio.Reader[float32] with the channel count and sample rate of the
// stream.
package vorbis

// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces signed 16-bit little-endian stereo, so every
// decoded file is an audio.Reader[int16] with two channels at the file's
// sample rate. Mono files come out with the channel duplicated.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	snd, err := audio.Load(src)
package mp3

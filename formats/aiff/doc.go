// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// Parsing is done by github.com/go-audio/aiff. Only 16-bit PCM is
// accepted, and samples come out as an audio.Reader[int16] without any
// normalization:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	r := src.(audio.Reader[int16])
//
// Other bit depths are rejected with audio.ErrUnsupportedSampleRepresentation.
// AIFF stores samples big-endian; the byte order is handled by the parser.
//
// Inputs that cannot seek are buffered in memory first.
package aiff

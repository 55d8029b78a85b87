// SPDX-License-Identifier: EPL-2.0

// Package wavout is a device.Device that renders to a WAV file.
//
// FixedPoint16 output is written as 16-bit PCM and Float32 output as 32-bit
// IEEE float. The render goroutine plays the part of the audio callback
// thread: it asks for one buffer at a time until the requested length has
// been produced, then finalizes the file and closes Done.
package wavout

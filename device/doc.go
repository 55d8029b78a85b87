// SPDX-License-Identifier: EPL-2.0

// Package device defines the playback device contract the engine drives.
//
// A Device lists the formats it supports and opens an Output that pulls
// samples from a Callback, one Buffer at a time. Negotiate picks the first
// supported format that matches a requested audio.Format exactly, with the
// sample rate inside the supported range.
//
// Implementations live in subpackages: otodev plays through the system
// audio stack and wavout renders to a WAV file.
package device

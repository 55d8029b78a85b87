// SPDX-License-Identifier: EPL-2.0

// Package library keeps the drum samples a pattern plays.
//
// Each instrument is a single file named after it in the sample directory,
// for example kick.wav or hihat.ogg. Files are decoded once into memory and
// every hit gets its own source over the decoded clip, so any number of
// hits of the same instrument can play at once.
package library

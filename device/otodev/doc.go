// SPDX-License-Identifier: EPL-2.0

// Package otodev is a device.Device backed by github.com/ebitengine/oto/v3.
//
// Builds with the headless tag replace the backend with a stub that has no
// output device.
package otodev

// SPDX-License-Identifier: EPL-2.0

package device_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
	"github.com/ik5/drumbox/internal/audiotest"
)

var stereoF32 = audio.Format{Channels: 2, SampleRate: 44100, Representation: audio.Float32}

func TestSupportedFormat_Supports(t *testing.T) {
	t.Parallel()

	sf := device.SupportedFormat{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 48000, Representation: audio.Float32}

	tests := []struct {
		name   string
		format audio.Format
		want   bool
	}{
		{"inside range", stereoF32, true},
		{"lower bound", audio.Format{Channels: 2, SampleRate: 8000, Representation: audio.Float32}, true},
		{"upper bound", audio.Format{Channels: 2, SampleRate: 48000, Representation: audio.Float32}, true},
		{"rate too high", audio.Format{Channels: 2, SampleRate: 96000, Representation: audio.Float32}, false},
		{"channels", audio.Format{Channels: 1, SampleRate: 44100, Representation: audio.Float32}, false},
		{"representation", audio.Format{Channels: 2, SampleRate: 44100, Representation: audio.FixedPoint16}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sf.Supports(tt.format))
		})
	}
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	mono := device.SupportedFormat{Channels: 1, MinSampleRate: 8000, MaxSampleRate: 192000, Representation: audio.Float32}
	stereoI16 := device.SupportedFormat{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 192000, Representation: audio.FixedPoint16}
	first := device.SupportedFormat{Channels: 2, MinSampleRate: 22050, MaxSampleRate: 48000, Representation: audio.Float32}
	second := device.SupportedFormat{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 192000, Representation: audio.Float32}

	got, err := device.Negotiate(audiotest.NewFakeDevice(mono, stereoI16, first, second), stereoF32)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestNegotiate_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend failure")

	tests := []struct {
		name    string
		dev     device.Device
		want    audio.Format
		wantErr error
	}{
		{"no device", nil, stereoF32, device.ErrNoOutputDevice},
		{"no formats", audiotest.NewFakeDevice(), stereoF32, device.ErrNoCompatibleDeviceFormat},
		{
			"rate outside range",
			audiotest.NewFakeDevice(device.SupportedFormat{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 22050, Representation: audio.Float32}),
			stereoF32,
			device.ErrNoCompatibleDeviceFormat,
		},
		{"query failure", audiotest.NewFakeDevice().FailFormats(boom), stereoF32, boom},
		{"invalid format", audiotest.Supporting(stereoF32), audio.Format{}, audio.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := device.Negotiate(tt.dev, tt.want)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuffer(t *testing.T) {
	t.Parallel()

	b := device.Buffer{Representation: audio.FixedPoint16, Int16: []int16{1, 2, 3}}
	assert.Equal(t, 3, b.Len())
	b.Clear()
	assert.Equal(t, []int16{0, 0, 0}, b.Int16)

	f := device.Buffer{Representation: audio.Float32, Float32: make([]float32, 5)}
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, 0, device.Buffer{}.Len())
}

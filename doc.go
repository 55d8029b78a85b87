// SPDX-License-Identifier: EPL-2.0

// Package drumbox mixes drum samples in real time.
//
// The pieces live in subpackages:
//   - audio: formats, sources, the sample Stream and decoded Clips
//   - mixer: the equal-weight, saturating mixer
//   - device: output devices and format negotiation, with an oto backend
//     in device/otodev and a WAV renderer in device/wavout
//   - engine: a device callback feeding a mixer, plus Dispatch for
//     producers
//   - sequencer: drum patterns and the driver that plays them
//   - library: instrument samples decoded once and replayed per hit
//   - drumbot: a client for the drumbot pattern service
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders
//
// # Live playback
//
//	lib := library.New("res/samples")
//	format, _ := lib.Format("clap")
//	eng, _ := engine.Start(ctx, otodev.New(), format)
//	drv, _ := sequencer.NewDriver(pattern, eng, lib, sequencer.WithLoop(true))
//	_ = drv.Run(ctx)
//
// Every source dispatched to one engine must share its format exactly;
// there is no resampling and no channel conversion.
//
// # Offline rendering
//
// This package renders to WAV without an audio device. RenderPattern lays
// each step out at its exact frame offset:
//
//	f, _ := os.Create("beat.wav")
//	stats, err := drumbox.RenderPattern(ctx, f, format, pattern, lib, 4)
//
// Render mixes a fixed set of sources that all start together.
package drumbox

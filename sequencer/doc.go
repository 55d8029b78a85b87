// SPDX-License-Identifier: EPL-2.0

// Package sequencer turns drum patterns into timed dispatches.
//
// A Pattern has a step count, a tempo and one Track per instrument. Each
// track holds a flag per step. The Driver walks the steps at
// StepDelay(bpm) intervals and for every flagged instrument asks a
// SourceProvider for a fresh source and hands it to a Dispatcher:
//
//	drv, err := sequencer.NewDriver(pattern, eng, lib, sequencer.WithLoop(true))
//	err = drv.Run(ctx)
//
// Timing is the only thing the driver owns. What a source is and how it
// gets mixed are left to the provider and the dispatcher.
package sequencer

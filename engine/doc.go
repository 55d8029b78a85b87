// SPDX-License-Identifier: EPL-2.0

// Package engine drives an output device from a mixer.
//
//	eng, err := engine.Start(ctx, dev, format)
//	if err != nil {
//	    return err // no device, no compatible format, ...
//	}
//	go drv.Run(ctx) // a sequencer.Driver calls eng.Dispatch(src) per step
//	return eng.Join()
//
// The device goroutine only takes the mixer lock for the length of one
// Mix per sample slot. Decoding happens on the producer side before
// Dispatch is called.
//
// Offline devices run faster than real time, so wall-clock producers
// cannot line up with them. WithBufferHook runs a producer on the device
// goroutine instead, before each buffer is mixed.
//
// Shutdown is driven by the context given to Start. After cancellation the
// callback writes silence, the device is closed, remaining streams are
// released and Join returns.
package engine

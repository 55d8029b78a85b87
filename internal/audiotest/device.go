// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

// FakeDevice is a device.Device whose callback only runs when a test calls
// Pump on the opened output.
type FakeDevice struct {
	name       string
	formats    []device.SupportedFormat
	formatsErr error
	openErr    error

	mu      sync.Mutex
	outputs []*FakeOutput
}

// NewFakeDevice creates a device advertising formats.
func NewFakeDevice(formats ...device.SupportedFormat) *FakeDevice {
	return &FakeDevice{name: "fake", formats: formats}
}

// Supporting returns a fake device that supports exactly f.
func Supporting(f audio.Format) *FakeDevice {
	return NewFakeDevice(device.SupportedFormat{
		Channels:       f.Channels,
		MinSampleRate:  f.SampleRate,
		MaxSampleRate:  f.SampleRate,
		Representation: f.Representation,
	})
}

// FailFormats makes SupportedFormats return err.
func (d *FakeDevice) FailFormats(err error) *FakeDevice {
	d.formatsErr = err
	return d
}

// FailOpen makes Open return err.
func (d *FakeDevice) FailOpen(err error) *FakeDevice {
	d.openErr = err
	return d
}

func (d *FakeDevice) Name() string { return d.name }

func (d *FakeDevice) SupportedFormats() ([]device.SupportedFormat, error) {
	if d.formatsErr != nil {
		return nil, d.formatsErr
	}
	return d.formats, nil
}

func (d *FakeDevice) Open(format audio.Format, cb device.Callback) (device.Output, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	out := &FakeOutput{
		format: format,
		cb:     cb,
		done:   make(chan struct{}),
	}

	d.mu.Lock()
	d.outputs = append(d.outputs, out)
	d.mu.Unlock()
	return out, nil
}

// Output returns the most recently opened output, or nil.
func (d *FakeDevice) Output() *FakeOutput {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.outputs) == 0 {
		return nil
	}
	return d.outputs[len(d.outputs)-1]
}

// FakeOutput is the device.Output returned by FakeDevice.
type FakeOutput struct {
	format audio.Format
	cb     device.Callback

	mu      sync.Mutex
	playing bool
	closed  bool
	err     error
	done    chan struct{}
}

// Format returns the format the output was opened with.
func (o *FakeOutput) Format() audio.Format { return o.format }

func (o *FakeOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return device.ErrClosed
	}
	o.playing = true
	return nil
}

// Playing reports whether Play was called and the output is still open.
func (o *FakeOutput) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing && !o.closed
}

// Pump runs the callback once over a buffer of n samples and returns it.
// The buffer stays silent when the output is not playing.
func (o *FakeOutput) Pump(n int) device.Buffer {
	buf := device.Buffer{Representation: o.format.Representation}
	switch o.format.Representation {
	case audio.FixedPoint16:
		buf.Int16 = make([]int16, n)
	case audio.Float32:
		buf.Float32 = make([]float32, n)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.playing && !o.closed {
		o.cb(buf)
	}
	return buf
}

// Fail stops the output as if the device had gone away.
func (o *FakeOutput) Fail(err error) {
	o.stop(err)
}

func (o *FakeOutput) Close() error {
	o.stop(nil)
	return nil
}

func (o *FakeOutput) stop(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.err = err
	close(o.done)
}

func (o *FakeOutput) Done() <-chan struct{} { return o.done }

func (o *FakeOutput) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// ErrDeviceGone is a convenience error for Fail.
var ErrDeviceGone = errors.New("device gone")

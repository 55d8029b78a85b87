// SPDX-License-Identifier: EPL-2.0

package otodev

import (
	"encoding/binary"
	"math"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
)

// pump adapts a device.Callback to the io.Reader oto pulls little-endian
// PCM bytes from. Scratch buffers are kept between reads so the steady
// state does not allocate.
type pump struct {
	cb     device.Callback
	rep    audio.Representation
	i16    []int16
	f32    []float32
	stride int
}

func newPump(format audio.Format, cb device.Callback) *pump {
	return &pump{
		cb:     cb,
		rep:    format.Representation,
		stride: format.Representation.BitDepth() / 8,
	}
}

func (p *pump) Read(b []byte) (int, error) {
	n := len(b) / p.stride
	if n == 0 {
		return 0, nil
	}

	switch p.rep {
	case audio.FixedPoint16:
		if cap(p.i16) < n {
			p.i16 = make([]int16, n)
		}
		buf := p.i16[:n]
		p.cb(device.Buffer{Representation: p.rep, Int16: buf})
		for i, v := range buf {
			binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
		}
	case audio.Float32:
		if cap(p.f32) < n {
			p.f32 = make([]float32, n)
		}
		buf := p.f32[:n]
		p.cb(device.Buffer{Representation: p.rep, Float32: buf})
		for i, v := range buf {
			binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
		}
	}
	return n * p.stride, nil
}

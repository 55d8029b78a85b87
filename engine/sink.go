// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device"
	"github.com/ik5/drumbox/mixer"
)

// sink is a mixer seen through the device buffer it fills. The concrete
// sample type is chosen once in newSink; after that nothing switches on it.
type sink interface {
	Register(audio.Source) error
	ActiveCount() int
	Clips() uint64
	Close() error
	fill(device.Buffer)
}

type mixSink[S audio.Sample, A audio.Arithmetic[S]] struct {
	*mixer.Mixer[S, A]
	slots func(device.Buffer) []S
}

func (m mixSink[S, A]) fill(b device.Buffer) { m.Fill(m.slots(b)) }

func newSink(format audio.Format, opts ...mixer.Option) (sink, error) {
	switch format.Representation {
	case audio.FixedPoint16:
		m, err := mixer.NewInt16(format, opts...)
		if err != nil {
			return nil, err
		}
		return mixSink[int16, audio.Int16Arithmetic]{
			Mixer: m,
			slots: func(b device.Buffer) []int16 { return b.Int16 },
		}, nil
	case audio.Float32:
		m, err := mixer.NewFloat32(format, opts...)
		if err != nil {
			return nil, err
		}
		return mixSink[float32, audio.Float32Arithmetic]{
			Mixer: m,
			slots: func(b device.Buffer) []float32 { return b.Float32 },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedSampleRepresentation, format.Representation)
	}
}

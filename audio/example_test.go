// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/internal/audiotest"
)

// mockDecoder is a simple decoder for testing the registry.
type mockDecoder struct{}

func (m mockDecoder) Decode(r io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(16000, 1, 1000, 440.0), nil
}

// Example_registry demonstrates the format registry.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("mock", mockDecoder{})

	decoder, ok := registry.Get(".MOCK")
	if !ok {
		fmt.Println("Decoder not found")
		return
	}
	fmt.Printf("Retrieved decoder: %T\n", decoder)

	_, ok = registry.Get("unknown")
	if !ok {
		fmt.Println("Unknown format not found in registry")
	}
	// Output:
	// Retrieved decoder: audio_test.mockDecoder
	// Unknown format not found in registry
}

// Example_deriveFormat maps decoder metadata onto a mixing format.
func Example_deriveFormat() {
	specs := []audio.Spec{
		{Channels: 2, SampleRate: 44100, BitDepth: 16, Encoding: audio.EncodingInt},
		{Channels: 1, SampleRate: 48000, BitDepth: 32, Encoding: audio.EncodingFloat},
		{Channels: 2, SampleRate: 44100, BitDepth: 24, Encoding: audio.EncodingInt},
	}

	for _, spec := range specs {
		f, err := audio.DeriveFormat(spec)
		if errors.Is(err, audio.ErrUnsupportedSampleRepresentation) {
			fmt.Printf("%s: not mixable\n", spec)
			continue
		}
		fmt.Printf("%s: %s\n", spec, f)
	}
	// Output:
	// 2ch 44100Hz 16-bit int: 2ch 44100Hz i16
	// 1ch 48000Hz 32-bit float: 1ch 48000Hz f32
	// 2ch 44100Hz 24-bit int: not mixable
}

// Example_stream pulls samples one at a time until the source runs dry.
func Example_stream() {
	format := audio.Format{Channels: 1, SampleRate: 8000, Representation: audio.FixedPoint16}
	src := audiotest.NewMockSource(format.Spec(), 3, func(frame, _ int) int16 {
		return int16(100 * (frame + 1))
	})

	st := audio.NewStream[int16](src)
	defer st.Close()

	for {
		v, ok := st.Next()
		if !ok {
			break
		}
		fmt.Println(v, st.Exhausted())
	}
	// Output:
	// 100 false
	// 200 false
	// 300 true
}

// Example_arithmetic shows how each representation splits and sums.
func Example_arithmetic() {
	var i16 audio.Int16Arithmetic
	half := i16.Scale(32767, 2)
	sum := i16.Add(half, half)
	fmt.Println(half, sum, i16.Clipped(sum))

	var f32 audio.Float32Arithmetic
	fhalf := f32.Scale(1, 2)
	fmt.Println(fhalf, f32.Add(fhalf, fhalf), f32.Add(1, 1))
	// Output:
	// 16384 32767 true
	// 0.5 1 1
}

// Example_clip decodes a source once and replays it.
func Example_clip() {
	format := audio.Format{Channels: 2, SampleRate: 8000, Representation: audio.Float32}
	sound, err := audio.Load(audiotest.NewConstantSource(format.Spec(), 8000, float32(0.25)))
	if err != nil {
		fmt.Println(err)
		return
	}

	a := sound.NewSource()
	b := sound.NewSource()
	fmt.Println(sound.Duration(), a != b)
	// Output:
	// 1s true
}

// Example_errorHandling shows how a decode error ends a stream.
func Example_errorHandling() {
	format := audio.Format{Channels: 1, SampleRate: 8000, Representation: audio.Float32}
	src := audiotest.NewConstantSource(format.Spec(), 1000, float32(0.1)).
		FailAt(10, errors.New("corrupt frame"))

	st := audio.NewStream[float32](src)
	n := 0
	for {
		if _, ok := st.Next(); !ok {
			break
		}
		n++
	}

	fmt.Printf("played %d samples, then: %v\n", n, st.Err())
	// Output:
	// played 10 samples, then: corrupt frame
}

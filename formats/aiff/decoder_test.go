// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/drumbox/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	samplesToRead := min(len(buf.Data), len(m.samples)-m.offset)
	copy(buf.Data, m.samples[m.offset:m.offset+samplesToRead])
	m.offset += samplesToRead

	if m.offset >= len(m.samples) {
		return samplesToRead, io.EOF
	}
	return samplesToRead, nil
}

func newTestSource(channels int, samples []int) *source {
	return &source{
		dec: &mockAiffReader{sampleRate: 44100, channels: channels, samples: samples},
		spec: audio.Spec{
			Channels:   channels,
			SampleRate: 44100,
			BitDepth:   16,
			Encoding:   audio.EncodingInt,
		},
	}
}

// extended80 encodes an integral sample rate as an IEEE 754 80-bit float.
func extended80(rate uint64) []byte {
	out := make([]byte, 10)
	e := 63 - bits.LeadingZeros64(rate)
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+e))
	binary.BigEndian.PutUint64(out[2:10], rate<<(63-e))
	return out
}

// buildAIFF assembles a 16-bit FORM/AIFF file.
func buildAIFF(sampleRate, channels int, samples []int16) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, int16(channels))
	binary.Write(comm, binary.BigEndian, uint32(len(samples)/channels))
	binary.Write(comm, binary.BigEndian, int16(16))
	comm.Write(extended80(uint64(sampleRate)))

	ssnd := new(bytes.Buffer)
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // offset
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // block size
	binary.Write(ssnd, binary.BigEndian, samples)

	body := new(bytes.Buffer)
	body.WriteString("AIFF")
	body.WriteString("COMM")
	binary.Write(body, binary.BigEndian, uint32(comm.Len()))
	body.Write(comm.Bytes())
	body.WriteString("SSND")
	binary.Write(body, binary.BigEndian, uint32(ssnd.Len()))
	body.Write(ssnd.Bytes())

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	binary.Write(out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestDecoder_PCM16(t *testing.T) {
	t.Parallel()

	want := []int16{0, 1000, -1000, 32767, -32768, 5}
	src, err := Decoder{}.Decode(bytes.NewReader(buildAIFF(44100, 2, want)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantSpec := audio.Spec{Channels: 2, SampleRate: 44100, BitDepth: 16, Encoding: audio.EncodingInt}
	if src.Spec() != wantSpec {
		t.Errorf("Spec() = %v, want %v", src.Spec(), wantSpec)
	}

	clip, err := audio.ReadClip(src.(audio.Reader[int16]))
	if err != nil {
		t.Fatalf("ReadClip() error = %v", err)
	}
	if clip.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", clip.Len(), len(want))
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not AIFF data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte{}))
	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Spec(t *testing.T) {
	t.Parallel()

	src := newTestSource(2, make([]int, 100))
	f, err := audio.DeriveFormat(src.Spec())
	if err != nil {
		t.Fatalf("DeriveFormat() error = %v", err)
	}
	if want := (audio.Format{Channels: 2, SampleRate: 44100, Representation: audio.FixedPoint16}); f != want {
		t.Errorf("format = %v, want %v", f, want)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	testSamples := []int{0, 16384, -16384, 32767, -32768}
	src := newTestSource(1, testSamples)

	dst := make([]int16, len(testSamples))
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want nil or EOF", err)
	}
	if n != len(testSamples) {
		t.Errorf("ReadSamples() n = %d, want %d", n, len(testSamples))
	}

	for i := range n {
		if int(dst[i]) != testSamples[i] {
			t.Errorf("ReadSamples() dst[%d] = %d, want %d", i, dst[i], testSamples[i])
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := newTestSource(2, make([]int, 100)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_PartialRead(t *testing.T) {
	t.Parallel()

	src := newTestSource(1, []int{100, 200, 300, 400, 500})
	dst := make([]int16, 2)

	wants := []struct {
		n   int
		err error
	}{
		{2, nil},
		{2, nil},
		{1, io.EOF},
		{0, io.EOF},
	}

	for i, w := range wants {
		n, err := src.ReadSamples(dst)
		if n != w.n || err != w.err {
			t.Errorf("read %d = %d, %v, want %d, %v", i, n, err, w.n, w.err)
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newTestSource(1, []int{100, 200})
	src.dec.(*mockAiffReader).returnErrors = true

	_, err := src.ReadSamples(make([]int16, 10))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	src := newTestSource(2, make([]int, 100))
	if got := src.BufSize(); got != defaultBufSize {
		t.Errorf("BufSize() = %d, want %d (default)", got, defaultBufSize)
	}

	src.ReadSamples(make([]int16, 100))
	if got := src.BufSize(); got < 100 {
		t.Errorf("BufSize() = %d, want >= 100", got)
	}
}

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err     error
		message string
	}{
		{ErrNotAiffFile, "not an AIFF file"},
		{ErrUnsupportedAiffLayout, "unsupported AIFF layout"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			t.Parallel()

			if tt.err.Error() != tt.message {
				t.Errorf("Error message = %q, want %q", tt.err.Error(), tt.message)
			}
			if !errors.Is(errors.Join(tt.err, io.EOF), tt.err) {
				t.Errorf("errors.Is(joined, %v) = false, want true", tt.err)
			}
		})
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 4096)
	for i := range samples {
		samples[i] = i * 8
	}

	src := newTestSource(2, samples)
	dst := make([]int16, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		src.dec.(*mockAiffReader).offset = 0

		for {
			n, err := src.ReadSamples(dst)
			if err == io.EOF || n == 0 {
				break
			}
		}
	}
}

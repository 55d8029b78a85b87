// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func drain[S Sample](st *Stream[S]) []S {
	var out []S
	for {
		v, ok := st.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestStream_PreservesOrder(t *testing.T) {
	t.Parallel()

	want := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	src := newMockSource(i16Spec, want...)
	src.chunk = 3

	st := NewStream[int16](src)
	got := drain(st)

	if len(got) != len(want) {
		t.Fatalf("drained %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if !st.Exhausted() {
		t.Error("Exhausted() = false after draining")
	}
	if st.Err() != nil {
		t.Errorf("Err() = %v, want nil on clean EOF", st.Err())
	}
}

func TestStream_StaysExhausted(t *testing.T) {
	t.Parallel()

	st := NewStream[float32](newMockSource(f32Spec, float32(0.25)))

	if v, ok := st.Next(); !ok || v != 0.25 {
		t.Fatalf("Next() = %v, %v, want 0.25, true", v, ok)
	}
	for range 3 {
		if v, ok := st.Next(); ok || v != 0 {
			t.Errorf("Next() after end = %v, %v, want 0, false", v, ok)
		}
	}
}

func TestStream_DecodeErrorTruncates(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := newMockSource(i16Spec, int16(10), 20, 30)
	src.readErr = boom

	st := NewStream[int16](src)
	got := drain(st)

	if len(got) != 3 {
		t.Fatalf("drained %d samples, want 3", len(got))
	}
	if !errors.Is(st.Err(), boom) {
		t.Errorf("Err() = %v, want %v", st.Err(), boom)
	}
}

func TestStream_EmptySource(t *testing.T) {
	t.Parallel()

	st := NewStream[int16](newMockSource[int16](i16Spec))

	if !st.Exhausted() {
		t.Error("Exhausted() = false for an empty source")
	}
	if _, ok := st.Next(); ok {
		t.Error("Next() = true for an empty source")
	}
}

// stallingSource never returns data nor an error.
type stallingSource struct {
	reads int
}

func (s *stallingSource) Spec() Spec                      { return i16Spec }
func (s *stallingSource) BufSize() int                    { return 0 }
func (s *stallingSource) Close() error                    { return nil }
func (s *stallingSource) ReadSamples([]int16) (int, error) { s.reads++; return 0, nil }

func TestStream_StallingSourceGivesUp(t *testing.T) {
	t.Parallel()

	src := &stallingSource{}
	st := NewStream[int16](src)

	if _, ok := st.Next(); ok {
		t.Fatal("Next() = true for a source that never yields")
	}
	if src.reads != maxEmptyReads {
		t.Errorf("source read %d times, want %d", src.reads, maxEmptyReads)
	}
	if len(st.buf) != defaultStreamBuf {
		t.Errorf("buffer size = %d, want default %d", len(st.buf), defaultStreamBuf)
	}
}

func TestStream_CloseOnce(t *testing.T) {
	t.Parallel()

	src := newMockSource(i16Spec, int16(1))
	st := NewStream[int16](src)

	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}
	if st.Spec() != i16Spec {
		t.Errorf("Spec() = %v, want %v", st.Spec(), i16Spec)
	}
}

func BenchmarkStream_Next(b *testing.B) {
	data := make([]float32, 4096)
	b.ReportAllocs()

	for b.Loop() {
		st := NewStream[float32](newMockSource(f32Spec, data...))
		for {
			if _, ok := st.Next(); !ok {
				break
			}
		}
	}
}

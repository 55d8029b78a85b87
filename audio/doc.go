// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level building blocks shared by the mixer,
// the decoders and the playback engine.
//
// This package contains:
//   - Format, Spec and DeriveFormat for mapping decoder metadata onto one of
//     the two mixable representations
//   - Source and Reader interfaces for decoded audio
//   - Stream, a one-sample-at-a-time cursor over a Reader
//   - Clip, an in-memory decoded sound that can be replayed
//   - Arithmetic, the saturating math used when summing streams
//   - Format registry for decoder registration
//
// # Representations
//
// Two sample representations are supported:
//
//	FixedPoint16  int16,   silence 0,   saturates at -32768 / 32767
//	Float32       float32, silence 0.0, clamps to [-1.0, 1.0]
//
// DeriveFormat maps a decoder Spec onto a Format and returns
// ErrUnsupportedSampleRepresentation for any other bit depth / encoding:
//
//	f, err := audio.DeriveFormat(src.Spec())
//
// # Source Interface
//
// Decoders return a Source. A Source that yields int16 samples also
// implements Reader[int16], one that yields float32 samples implements
// Reader[float32]:
//
//	type Reader[S Sample] interface {
//	    Source
//	    ReadSamples(dst []S) (int, error)
//	}
//
// # Streams
//
// A Stream hands out one interleaved sample per call and reports exhaustion
// instead of errors:
//
//	st := audio.NewStream(reader)
//	for {
//	    v, ok := st.Next()
//	    if !ok {
//	        break
//	    }
//	    _ = v
//	}
//	st.Close()
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get(".WAV")
//
// # Error Handling
//
// Readers return io.EOF when no more data is available:
//
//	for {
//	    n, err := reader.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	}
package audio

// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives the mixer and its engine are built
// on.
//
// This package contains:
//   - Source interface for audio input
//   - Decoder and Registry for file formats
//   - MonoMixer for channel downmixing
//   - Resampler for sample rate conversion
//   - Conform, which chains the two to fit a source to an engine
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders, live tracks and processors all implement it, so they can be
// chained. Live sources may return 0 samples with a nil error while nothing is
// buffered; every processor here passes that through instead of treating it as
// the end of the stream.
//
// # Conforming Sources
//
// The software engine renders mono audio at a fixed rate. Conform downmixes
// and resamples any source to that shape:
//
//	src := audio.Conform(decoded, 48000)
//	buf := make([]float32, 128)
//	n, err := src.ReadSamples(buf)
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.Lookup("intro.wav")
//
// formats.NewRegistry returns one with every bundled decoder registered.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio

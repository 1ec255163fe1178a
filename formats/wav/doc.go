// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files through github.com/go-audio/wav.
//
// Decoder accepts integer PCM at 16, 24 or 32 bits with any channel count and
// sample rate. Samples come out as float32 in [-1, 1]. Closing the returned
// source closes the reader it was decoded from when that reader is an
// io.Closer.
//
//	f, _ := os.Open("voice.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// Writer streams float32 samples into a 16-bit file and fixes up the header
// sizes on Close, so it needs an io.WriteSeeker such as *os.File:
//
//	w := wav.NewWriter(f, 48000, 1)
//	err := w.Write(block)
//	err = w.Close()
//
// WriteWAV16 writes a finished mono buffer to any io.Writer in one call.
package wav

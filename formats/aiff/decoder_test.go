// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader hands out fixed integer PCM the way aiff.Decoder does.
type mockAiffReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	failWith   error
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: m.sampleRate, NumChannels: m.channels}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	if m.offset >= len(m.samples) {
		return n, io.EOF
	}

	return n, nil
}

func newTestSource(bitDepth, channels int, samples []int) *source {
	return &source{
		dec:        &mockAiffReader{sampleRate: 44100, channels: channels, samples: samples},
		sampleRate: 44100,
		channels:   channels,
		bitDepth:   bitDepth,
	}
}

type closeTracker struct {
	*bytes.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestDecoder_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not AIFF data")},
		{"empty", nil},
		{"wave header", []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 2, make([]int, 100))
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz / %d ch, want 44100 / 2", src.SampleRate(), src.Channels())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 1, []int{0, 16384, -16384, 32767, -32768})

	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("ReadSamples() n = %d, want 5", n)
	}

	want := []float32{0, 0.5, -0.5, 0.999969482, -1}
	for i := range want {
		if d := dst[i] - want[i]; d < -0.001 || d > 0.001 {
			t.Errorf("dst[%d] = %f, want ~%f", i, dst[i], want[i])
		}
	}
}

func TestSource_ReadSamples_Sequence(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 1, []int{100, 200, 300, 400, 500})
	dst := make([]float32, 2)

	steps := []struct {
		n   int
		err error
	}{
		{2, nil},
		{2, nil},
		{1, io.EOF},
		{0, io.EOF},
	}
	for i, step := range steps {
		n, err := src.ReadSamples(dst)
		if n != step.n || err != step.err {
			t.Errorf("read %d = %d, %v; want %d, %v", i, n, err, step.n, step.err)
		}
	}
}

func TestSource_ReadSamples_EmptyDst(t *testing.T) {
	t.Parallel()

	n, err := newTestSource(16, 2, make([]int, 10)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 1, []int{1, 2})
	src.dec.(*mockAiffReader).failWith = io.ErrUnexpectedEOF

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 2, make([]int, 100))
	if got := src.BufSize(); got != 4096 {
		t.Errorf("BufSize() before read = %d, want 4096", got)
	}

	src.ReadSamples(make([]float32, 100))
	if got := src.BufSize(); got < 100 {
		t.Errorf("BufSize() after read = %d, want >= 100", got)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		want     float32
	}{
		{"16-bit max", 16, 32767, 32767.0 / 32768.0},
		{"16-bit min", 16, -32768, -1},
		{"24-bit", 24, 8388607, 8388607.0 / 8388608.0},
		{"24-bit half", 24, -4194304, -0.5},
		{"32-bit", 32, 2147483647, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]float32, 1)
			if n, _ := newTestSource(tt.bitDepth, 1, []int{tt.input}).ReadSamples(dst); n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}
			if d := dst[0] - tt.want; d < -0.001 || d > 0.001 {
				t.Errorf("dst[0] = %f, want ~%f", dst[0], tt.want)
			}
		})
	}
}

func TestSource_CloseReleasesInput(t *testing.T) {
	t.Parallel()

	in := &closeTracker{Reader: bytes.NewReader(nil)}
	src := newTestSource(16, 1, nil)
	src.in = in

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !in.closed {
		t.Error("Close() did not close the input")
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 44100*2)
	for i := range samples {
		samples[i] = (i % 65536) - 32768
	}
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for range b.N {
		src := newTestSource(16, 2, samples)
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// createWAVFile builds a canonical 44-byte-header WAV with the given sample
// width. Samples are written little-endian using bits/8 bytes each.
func createWAVFile(sampleRate, channels, bits int, format uint16, samples []int32) []byte {
	buf := new(bytes.Buffer)

	width := bits / 8
	dataSize := uint32(len(samples) * width)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*width))
	binary.Write(buf, binary.LittleEndian, uint16(channels*width))
	binary.Write(buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)

	b := make([]byte, 4)
	for _, s := range samples {
		binary.LittleEndian.PutUint32(b, uint32(s))
		buf.Write(b[:width])
	}

	return buf.Bytes()
}

// readerOnly hides Seek so the decoder has to buffer.
type readerOnly struct{ r io.Reader }

func (r readerOnly) Read(p []byte) (int, error) { return r.r.Read(p) }

type closeTracker struct {
	*bytes.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func readAll(t *testing.T, data []byte) ([]float32, int, int) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var out []float32
	buf := make([]float32, 4)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	return out, src.SampleRate(), src.Channels()
}

func TestDecoder_Mono16(t *testing.T) {
	t.Parallel()

	data := createWAVFile(8000, 1, 16, 1, []int32{0, 16384, -16384, 32767, -32768})
	got, rate, channels := readAll(t, data)

	if rate != 8000 || channels != 1 {
		t.Fatalf("format = %d Hz / %d ch, want 8000 / 1", rate, channels)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_Stereo16(t *testing.T) {
	t.Parallel()

	data := createWAVFile(44100, 2, 16, 1, []int32{100, 200, 300, 400, 500, 600})
	got, rate, channels := readAll(t, data)

	if rate != 44100 || channels != 2 {
		t.Fatalf("format = %d Hz / %d ch, want 44100 / 2", rate, channels)
	}
	if len(got) != 6 {
		t.Errorf("got %d samples, want 6", len(got))
	}
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bits   int
		sample int32
	}{
		{"24-bit", 24, 1 << 22},
		{"32-bit", 32, 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, _ := readAll(t, createWAVFile(16000, 1, tt.bits, 1, []int32{tt.sample, -tt.sample}))
			if len(got) != 2 {
				t.Fatalf("got %d samples, want 2", len(got))
			}
			if math.Abs(float64(got[0])-0.5) > 1e-6 || math.Abs(float64(got[1])+0.5) > 1e-6 {
				t.Errorf("samples = %v, want [0.5 -0.5]", got)
			}
		})
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"not riff", []byte("this is definitely not a wave file at all, not even close"), ErrNotWavFile},
		{"8-bit", createWAVFile(8000, 1, 8, 1, []int32{1, 2, 3, 4}), ErrUnsupportedBitDepth},
		{"float", createWAVFile(8000, 1, 32, 3, []int32{1, 2}), ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	data := createWAVFile(8000, 1, 16, 1, []int32{1, 2, 3})
	src, err := Decoder{}.Decode(readerOnly{bytes.NewReader(data)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 3 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v; want 3, io.EOF", n, err)
	}
}

func TestDecoder_CloseReleasesInput(t *testing.T) {
	t.Parallel()

	in := &closeTracker{Reader: bytes.NewReader(createWAVFile(8000, 1, 16, 1, []int32{1}))}
	src, err := Decoder{}.Decode(in)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !in.closed {
		t.Error("Close() did not close the input")
	}

	if n, err := src.ReadSamples(make([]float32, 4)); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after Close = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestDecoder_PartialFrameDst(t *testing.T) {
	t.Parallel()

	data := createWAVFile(8000, 2, 16, 1, []int32{1, 2, 3, 4})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// three slots hold one whole stereo frame
	n, err := src.ReadSamples(make([]float32, 3))
	if n != 2 || err != nil {
		t.Errorf("ReadSamples() = %d, %v; want 2, nil", n, err)
	}
}

func BenchmarkDecoder_ReadSamples(b *testing.B) {
	samples := make([]int32, 48000)
	for i := range samples {
		samples[i] = int32(i % 30000)
	}
	data := createWAVFile(48000, 1, 16, 1, samples)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for range b.N {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sajadjafari/audio-merger/internal/audiotest"
)

type stubDecoder struct{ name string }

func (d *stubDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &stubDecoder{name: "wav"}
	registry.Register("WAV", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &stubDecoder{name: "wav"}
	oggDecoder := &stubDecoder{name: "ogg"}
	registry.Register("wav", wavDecoder)
	registry.Register("ogg", oggDecoder)

	tests := []struct {
		path    string
		want    Decoder
		wantErr bool
	}{
		{"/music/intro.wav", wavDecoder, false},
		{"voice.OGG", oggDecoder, false},
		{"notes.flac", nil, true},
		{"README", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := registry.Lookup(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Lookup(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) returned the wrong decoder", tt.path)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("ogg", &stubDecoder{})
	registry.Register("aiff", &stubDecoder{})
	registry.Register("wav", &stubDecoder{})

	got := strings.Join(registry.Formats(), ",")
	if got != "aiff,ogg,wav" {
		t.Errorf("Formats() = %q, want %q", got, "aiff,ogg,wav")
	}
}

type closingReader struct {
	io.Reader
	closed bool
}

func (c *closingReader) Close() error {
	c.closed = true
	return nil
}

func TestAsReadSeekerAndCloseReader(t *testing.T) {
	t.Parallel()

	seeker := bytes.NewReader([]byte("abc"))
	rs, err := AsReadSeeker(seeker)
	if err != nil || rs != seeker {
		t.Fatalf("AsReadSeeker() should return seekable readers unchanged")
	}

	cr := &closingReader{Reader: strings.NewReader("xyz")}
	rs, err = AsReadSeeker(cr)
	if err != nil {
		t.Fatalf("AsReadSeeker() error = %v", err)
	}
	data, _ := io.ReadAll(rs)
	if string(data) != "xyz" {
		t.Errorf("buffered data = %q", data)
	}

	if err := CloseReader(cr); err != nil || !cr.closed {
		t.Errorf("CloseReader() did not close the reader")
	}
	if err := CloseReader(strings.NewReader("")); err != nil {
		t.Errorf("CloseReader() on a plain reader error = %v", err)
	}
}

func TestConform(t *testing.T) {
	t.Parallel()

	mono := audiotest.NewConstantSource(48000, 1, 10, 0.5)
	if Conform(mono, 48000) != Source(mono) {
		t.Error("Conform() wrapped a source that already fits")
	}

	stereo := audiotest.NewConstantSource(44100, 2, 4410, 0.25)
	conformed := Conform(stereo, 48000)
	if conformed.Channels() != 1 || conformed.SampleRate() != 48000 {
		t.Fatalf("Conform() = %d ch @ %d Hz", conformed.Channels(), conformed.SampleRate())
	}

	buf := make([]float32, 128)
	n, err := conformed.ReadSamples(buf)
	if err != nil || n != 128 {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}
	for i := range n {
		if d := buf[i] - 0.25; d > 0.001 || d < -0.001 {
			t.Fatalf("buf[%d] = %v, want 0.25", i, buf[i])
		}
	}
}

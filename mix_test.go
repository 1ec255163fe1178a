// SPDX-License-Identifier: EPL-2.0

package audiomerger_test

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	audiomerger "github.com/sajadjafari/audio-merger"
	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/formats/wav"
	"github.com/sirupsen/logrus/hooks/test"
)

const rate = 48000

func writeConstant(t *testing.T, dir, name string, value int16, n int) string {
	t.Helper()

	return writeConstantAt(t, dir, name, rate, value, n)
}

func writeConstantAt(t *testing.T, dir, name string, sampleRate int, value int16, n int) string {
	t.Helper()

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = value
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteWAV16(f, sampleRate, samples); err != nil {
		t.Fatal(err)
	}

	return path
}

func mixdown(t *testing.T, sources []audiomerger.FileSource, cfg audiomerger.Config) (audiomerger.Result, []float32) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	cfg.Logger = logger

	path := filepath.Join(t.TempDir(), "mix.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := audiomerger.Mixdown(f, sources, cfg)
	if err != nil {
		t.Fatalf("Mixdown() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	src, err := wav.Decoder{}.Decode(in)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != rate || src.Channels() != 1 {
		t.Fatalf("output format = %d Hz / %d ch, want %d / 1", src.SampleRate(), src.Channels(), rate)
	}

	var out []float32
	buf := make([]float32, 4096)
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

	return res, out
}

func checkRange(t *testing.T, got []float32, from, to int, want float32) {
	t.Helper()

	for i := from; i < to; i++ {
		if math.Abs(float64(got[i]-want)) > 0.001 {
			t.Fatalf("sample[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestMixdown_SumsAtVolume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	voice := writeConstant(t, dir, "voice.wav", 8192, 4800)
	music := writeConstant(t, dir, "music.wav", 16384, 9600)

	res, got := mixdown(t, []audiomerger.FileSource{
		{Name: "voice", Path: voice, Volume: 100},
		{Name: "music", Path: music, Volume: 50},
	}, audiomerger.Config{})

	if res.Sources != 2 {
		t.Errorf("Sources = %d, want 2", res.Sources)
	}
	if res.Frames != len(got) {
		t.Errorf("Frames = %d, decoded %d", res.Frames, len(got))
	}
	if len(got) < 9600 {
		t.Fatalf("got %d samples, want at least 9600", len(got))
	}
	if want := time.Duration(res.Frames) * time.Second / rate; res.Duration != want {
		t.Errorf("Duration = %v, want %v", res.Duration, want)
	}

	checkRange(t, got, 0, 4800, 0.5)
	checkRange(t, got, 4800, 9600, 0.25)
	checkRange(t, got, 9600, len(got), 0)
}

func TestMixdown_ResampledKeepsTail(t *testing.T) {
	t.Parallel()

	// 0.1 s at 44.1 kHz
	path := writeConstantAt(t, t.TempDir(), "cd.wav", 44100, 8192, 4410)

	_, got := mixdown(t, []audiomerger.FileSource{
		{Path: path, Volume: 100},
	}, audiomerger.Config{})

	sounding := 0
	for _, v := range got {
		if v > 0.125 {
			sounding++
		}
	}
	if sounding < 4796 || sounding > 4804 {
		t.Errorf("got %d sounding samples, want about 4800", sounding)
	}
	checkRange(t, got, 0, 4790, 0.25)
}

func TestMixdown_Duration(t *testing.T) {
	t.Parallel()

	path := writeConstant(t, t.TempDir(), "long.wav", 8192, rate)

	res, got := mixdown(t, []audiomerger.FileSource{
		{Path: path, Volume: 100},
	}, audiomerger.Config{Duration: 100 * time.Millisecond})

	if res.Frames != 4800 || len(got) != 4800 {
		t.Fatalf("Frames = %d, decoded %d, want 4800", res.Frames, len(got))
	}
	checkRange(t, got, 0, len(got), 0.25)
}

func TestMixdown_Delay(t *testing.T) {
	t.Parallel()

	path := writeConstant(t, t.TempDir(), "short.wav", 8192, 4800)

	_, got := mixdown(t, []audiomerger.FileSource{
		{Path: path, Volume: 100},
	}, audiomerger.Config{Delay: 10 * time.Millisecond})

	if len(got) < 4800+480 {
		t.Fatalf("got %d samples, want at least %d", len(got), 4800+480)
	}
	checkRange(t, got, 0, 480, 0)
	checkRange(t, got, 480, 4800+480, 0.25)
}

func TestMixdown_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	logger, _ := test.NewNullLogger()
	cfg := audiomerger.Config{Logger: logger}

	tests := []struct {
		name    string
		sources []audiomerger.FileSource
		want    error
	}{
		{"no sources", nil, audiomerger.ErrNoSources},
		{"unknown format", []audiomerger.FileSource{{Path: "notes.txt"}}, audio.ErrUnsupportedFormat},
		{"missing file", []audiomerger.FileSource{{Path: filepath.Join(dir, "missing.wav")}}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := audiomerger.Mixdown(f, tt.sources, cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Mixdown() error = %v, want %v", err, tt.want)
			}
		})
	}
}

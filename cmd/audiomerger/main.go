// SPDX-License-Identifier: EPL-2.0

// Command audiomerger mixes audio sources.
//
// With -scene it renders the YAML scene offline into a WAV file:
//
//	audiomerger -scene show.yaml -out show.wav
//
// Without it, it starts the real-time engine and an interactive console for
// adding, muting and metering sources. The merged output is recorded to -out
// when given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	audiomerger "github.com/sajadjafari/audio-merger"
	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/engine/soft"
	"github.com/sajadjafari/audio-merger/formats"
	"github.com/sajadjafari/audio-merger/formats/wav"
	"github.com/sajadjafari/audio-merger/internal/scene"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sajadjafari/audio-merger/mixer"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "YAML scene to render offline")
		outPath   = flag.String("out", "", "WAV file for the merged output")
		rate      = flag.Int("rate", soft.DefaultSampleRate, "engine sample rate")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var err error
	if *scenePath != "" {
		err = runScene(log, *scenePath, *outPath, *rate)
	} else {
		err = runLive(log, *outPath, *rate)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScene(log *logrus.Logger, path, out string, rate int) error {
	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	if out == "" {
		out = "mix.wav"
	}
	if s.SampleRate == 0 {
		s.SampleRate = rate
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	sources := make([]audiomerger.FileSource, len(s.Sources))
	for i, src := range s.Sources {
		sources[i] = audiomerger.FileSource{Name: src.Name, Path: src.File, Volume: src.Level()}
	}

	res, err := audiomerger.Mixdown(f, sources, audiomerger.Config{
		SampleRate: s.SampleRate,
		Duration:   s.Duration,
		Delay:      s.SyncDelay,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d sources, %v\n", out, res.Sources, res.Duration)

	return f.Close()
}

func runLive(log *logrus.Logger, out string, rate int) error {
	ctx := soft.New(soft.Config{
		SampleRate:  rate,
		IdleSuspend: time.Second,
		Logger:      log,
	})

	m, err := mixer.New(
		mixer.WithLogger(log),
		mixer.WithEngine(func() (engine.Context, error) { return ctx, nil }),
	)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctx.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithField("error", err.Error()).Error("Engine stopped")
		}
	}()

	var rec *recorder
	if out != "" {
		if rec, err = newRecorder(out, rate); err != nil {
			cancel()
			m.Destroy()
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.run(m.OutputStream().Tracks()[0])
		}()
	}

	env := &env{
		mixer:    m,
		registry: formats.NewRegistry(),
		rate:     rate,
		log:      log,
	}
	replErr := repl(env)

	err = m.Destroy()
	cancel()
	wg.Wait()
	if rec != nil {
		err = errors.Join(err, rec.close())
		fmt.Printf("recorded %v to %s\n", rec.duration(), out)
	}

	return errors.Join(replErr, err)
}

// recorder drains a track into a WAV file until the track ends.
type recorder struct {
	f    *os.File
	w    *wav.Writer
	rate int
	err  error
}

func newRecorder(path string, rate int) (*recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &recorder{f: f, w: wav.NewWriter(f, rate, 1), rate: rate}, nil
}

func (r *recorder) run(track media.Track) {
	buf := make([]float32, 4096)
	for {
		n, err := track.ReadSamples(buf)
		if n > 0 {
			if werr := r.w.Write(buf[:n]); werr != nil {
				r.err = werr
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = err
			}
			return
		}
		if n == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (r *recorder) duration() time.Duration {
	return time.Duration(r.w.Frames()) * time.Second / time.Duration(r.rate)
}

func (r *recorder) close() error {
	return errors.Join(r.err, r.w.Close(), r.f.Close())
}

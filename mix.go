// SPDX-License-Identifier: EPL-2.0

package audiomerger

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/engine/soft"
	"github.com/sajadjafari/audio-merger/formats"
	"github.com/sajadjafari/audio-merger/formats/wav"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sajadjafari/audio-merger/mixer"
	"github.com/sirupsen/logrus"
)

// ErrNoSources is returned by Mixdown when there is nothing to mix.
var ErrNoSources = errors.New("no sources to mix")

// blockFrames is how much Mixdown renders between writes.
const blockFrames = 32 * soft.RenderQuantum

// FileSource is one input of a mixdown.
type FileSource struct {
	Name string
	Path string
	// Volume on the 0-100 scale. Zero mutes the source.
	Volume float64
}

// Config controls a mixdown. The zero value renders at 48 kHz until every
// source has ended.
type Config struct {
	SampleRate int
	// Duration caps the output length. Zero means until every source ends.
	Duration time.Duration
	// Delay shifts the whole mix later, padding the start with silence.
	Delay time.Duration
	// Registry decodes the files. Defaults to formats.NewRegistry().
	Registry *audio.Registry
	Logger   logrus.FieldLogger
}

// Result describes a finished mixdown.
type Result struct {
	Frames   int
	Duration time.Duration
	Sources  int
}

// Mixdown decodes every source, mixes them at their volumes and writes the
// result to w as 16-bit mono WAV.
func Mixdown(w io.WriteSeeker, sources []FileSource, cfg Config) (res Result, err error) {
	if len(sources) == 0 {
		return Result{}, ErrNoSources
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = soft.DefaultSampleRate
	}
	if cfg.Registry == nil {
		cfg.Registry = formats.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	log := cfg.Logger.WithField("function", "Mixdown")

	ctx := soft.New(soft.Config{SampleRate: cfg.SampleRate, Logger: cfg.Logger})
	opts := []mixer.Option{
		mixer.WithLogger(cfg.Logger),
		mixer.WithEngine(func() (engine.Context, error) { return ctx, nil }),
	}
	if cfg.Delay > mixer.DefaultSyncDelay {
		opts = append(opts, mixer.WithSyncDelay(cfg.Delay))
	}

	m, err := mixer.New(opts...)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, m.Destroy())
	}()

	if cfg.Delay > 0 {
		m.SyncDelay().DelayTime().SetValue(cfg.Delay.Seconds())
	}

	elements := make([]*media.FileElement, 0, len(sources))
	nodes := make([]engine.Node, 0, len(sources))
	for _, s := range sources {
		el, err := media.OpenFile(s.Path, cfg.Registry)
		if err != nil {
			return Result{}, fmt.Errorf("opening %s: %w", s.Path, err)
		}
		name := s.Name
		if name == "" {
			name = s.Path
		}
		chain, err := m.AddSource(name, el)
		if err != nil {
			_ = el.Detach()
			return Result{}, fmt.Errorf("adding %s: %w", name, err)
		}
		m.UpdateVolume(el.ID(), s.Volume)
		elements = append(elements, el)
		nodes = append(nodes, chain.Node())

		log.WithFields(logrus.Fields{
			"name":        name,
			"path":        s.Path,
			"volume":      s.Volume,
			"sample_rate": el.SampleRate(),
			"channels":    el.Channels(),
		}).Debug("Source opened")
	}

	for _, el := range elements {
		if err := el.Play(); err != nil {
			return Result{}, fmt.Errorf("starting %s: %w", el.ID(), err)
		}
	}

	limit := -1
	if cfg.Duration > 0 {
		limit = int(cfg.Duration.Seconds() * float64(cfg.SampleRate))
	}
	tail := int(cfg.Delay.Seconds() * float64(cfg.SampleRate))

	out := wav.NewWriter(w, cfg.SampleRate, 1)
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	track := m.OutputStream().Tracks()[0]
	buf := make([]float32, blockFrames)
	frames := 0
	for limit < 0 || frames < limit {
		if drained(elements, nodes) {
			if tail <= 0 {
				break
			}
			tail -= blockFrames
		}

		if _, err := ctx.Render(blockFrames); err != nil {
			return Result{}, fmt.Errorf("rendering: %w", err)
		}
		n, err := track.ReadSamples(buf)
		if err != nil {
			return Result{}, fmt.Errorf("reading output: %w", err)
		}
		if limit >= 0 {
			n = min(n, limit-frames)
		}
		if err := out.Write(buf[:n]); err != nil {
			return Result{}, fmt.Errorf("writing output: %w", err)
		}
		frames += n
	}

	res = Result{
		Frames:   frames,
		Duration: time.Duration(frames) * time.Second / time.Duration(cfg.SampleRate),
		Sources:  len(elements),
	}
	log.WithFields(logrus.Fields{
		"frames":   res.Frames,
		"duration": res.Duration.String(),
		"sources":  res.Sources,
	}).Info("Mixdown finished")

	return res, nil
}

// drained reports whether every element has ended and its source node has
// emitted everything it buffered.
func drained(elements []*media.FileElement, nodes []engine.Node) bool {
	for i, el := range elements {
		if !el.Ended() {
			return false
		}
		if d, ok := nodes[i].(engine.Drainer); ok && !d.Drained() {
			return false
		}
	}
	return true
}

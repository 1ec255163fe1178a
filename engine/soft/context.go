// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math"
	"sync"
	"time"

	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sirupsen/logrus"
)

const (
	// RenderQuantum is the number of frames rendered per graph pass.
	RenderQuantum = 128

	DefaultSampleRate = 48000
	// MaxDelayTime is the largest delay line a context creates, in seconds.
	MaxDelayTime = 180.0
)

// Config configures a Context. The zero value is usable.
type Config struct {
	// SampleRate of the graph. Defaults to DefaultSampleRate.
	SampleRate int
	// TrackCapacity is how much audio stream destinations buffer for their
	// readers. Defaults to media.DefaultTrackCapacity.
	TrackCapacity time.Duration
	// IdleSuspend suspends the context once the destination has been
	// digitally silent this long. Zero disables it.
	IdleSuspend time.Duration
	// Monitor receives a copy of every quantum reaching the destination.
	// It runs on the rendering goroutine without the context lock held.
	Monitor func(samples []float32)
	Logger  logrus.FieldLogger
}

// Context is a single-channel software rendering graph.
type Context struct {
	mu sync.Mutex

	sampleRate    int
	trackCapacity time.Duration
	idleFrames    int64
	monitor       func([]float32)
	log           logrus.FieldLogger

	state   engine.State
	frame   int64
	quantum int64

	dest     *destination
	sinks    []*streamDestination
	pulled   map[*base]struct{}
	monitorq []float32

	done    chan struct{}
	running bool
}

var _ engine.Context = (*Context)(nil)

func New(cfg Config) *Context {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.TrackCapacity <= 0 {
		cfg.TrackCapacity = media.DefaultTrackCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	ctx := &Context{
		sampleRate:    cfg.SampleRate,
		trackCapacity: cfg.TrackCapacity,
		idleFrames:    int64(cfg.IdleSuspend.Seconds() * float64(cfg.SampleRate)),
		monitor:       cfg.Monitor,
		log:           cfg.Logger,
		state:         engine.StateRunning,
		pulled:        make(map[*base]struct{}),
		monitorq:      make([]float32, RenderQuantum),
		done:          make(chan struct{}),
	}

	ctx.dest = &destination{base: newBase(ctx, "destination", true, false)}
	ctx.dest.impl = ctx.dest

	ctx.log.WithFields(logrus.Fields{
		"function":    "New",
		"sample_rate": ctx.sampleRate,
	}).Info("Audio context created")

	return ctx
}

// NewEngine returns a running context for cfg as an engine.Context.
func NewEngine(cfg Config) func() (engine.Context, error) {
	return func() (engine.Context, error) {
		return New(cfg), nil
	}
}

func (c *Context) SampleRate() int { return c.sampleRate }

// now is the clock in seconds. Callers hold c.mu.
func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.sampleRate)
}

func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now()
}

// Frames returns how many frames have been rendered.
func (c *Context) Frames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.frame
}

func (c *Context) State() engine.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Context) Destination() engine.Node { return c.dest }

func (c *Context) checkOpen() error {
	return c.guard(func() {})
}

// guard runs fn under the lock unless the context is closed.
func (c *Context) guard(fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == engine.StateClosed {
		return engine.ErrContextClosed
	}
	fn()

	return nil
}

func (c *Context) CreateGain() (engine.GainNode, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	n := &gainNode{base: newBase(c, "gain", true, true)}
	n.gain = newParam(c, 1, math.Inf(-1), math.Inf(1))
	n.impl = n

	return n, nil
}

func (c *Context) CreateDelay(maxDelay float64) (engine.DelayNode, error) {
	if !(maxDelay > 0 && maxDelay <= MaxDelayTime) {
		return nil, engine.ErrInvalidDelay
	}
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	n := &delayNode{
		base: newBase(c, "delay", true, true),
		line: make([]float32, int(math.Ceil(maxDelay*float64(c.sampleRate)))+1),
	}
	n.delayTime = newParam(c, 0, 0, maxDelay)
	n.impl = n

	return n, nil
}

func (c *Context) CreateAnalyser() (engine.AnalyserNode, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	return newAnalyser(c), nil
}

func (c *Context) CreateConstantSource() (engine.ConstantSourceNode, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	n := &constantNode{base: newBase(c, "constant", false, true)}
	n.offset = newParam(c, 1, math.Inf(-1), math.Inf(1))
	n.impl = n

	return n, nil
}

func (c *Context) CreateMediaStreamSource(s media.Stream) (engine.Node, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	n := &streamSource{
		base:   newBase(c, "stream-source", false, true),
		tracks: s.Tracks(),
		tmp:    make([]float32, RenderQuantum),
	}
	for _, t := range n.tracks {
		n.feeds = append(n.feeds, &feed{src: audio.Conform(t, c.sampleRate)})
	}
	n.impl = n

	return n, nil
}

func (c *Context) CreateMediaElementSource(e media.Element) (engine.Node, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	n := &elementSource{
		base:    newBase(c, "element-source", false, true),
		element: e,
		feed:    &feed{src: audio.Conform(elementReader{e}, c.sampleRate)},
	}
	n.impl = n

	return n, nil
}

func (c *Context) CreateMediaStreamDestination() (engine.StreamDestinationNode, error) {
	track := media.NewLiveTrack(c.sampleRate, 1, c.trackCapacity)
	n := &streamDestination{
		base:   newBase(c, "stream-destination", true, false),
		track:  track,
		stream: media.NewCaptureStream(track),
	}
	n.impl = n

	if err := c.guard(func() { c.sinks = append(c.sinks, n) }); err != nil {
		return nil, err
	}

	return n, nil
}

// Suspend stops the clock. Rendering calls do nothing until Resume.
func (c *Context) Suspend() error {
	return c.guard(func() {
		c.state = engine.StateSuspended
	})
}

func (c *Context) Resume() error {
	return c.guard(func() {
		c.state = engine.StateRunning
		c.dest.silent = 0
	})
}

// Close stops every stream destination track. Closing twice is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == engine.StateClosed {
		return nil
	}
	c.state = engine.StateClosed
	close(c.done)

	for _, s := range c.sinks {
		s.track.Stop()
	}
	c.sinks = nil
	clear(c.pulled)

	c.log.WithFields(logrus.Fields{
		"function": "Close",
		"time":     c.now(),
	}).Info("Audio context closed")

	return nil
}

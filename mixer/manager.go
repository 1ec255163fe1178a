// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/engine/soft"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sirupsen/logrus"
)

// Manager maintains the source graph: one SourceChain per input identity,
// all merged on a shared bus that feeds the output stream through a sync
// delay. It is safe for concurrent use.
type Manager struct {
	mu  sync.RWMutex
	cfg config
	log logrus.FieldLogger

	ctx       engine.Context
	output    engine.StreamDestinationNode
	syncDelay engine.DelayNode
	bus       engine.GainNode
	graph     wiring

	sources   map[string]*SourceChain
	destroyed bool
}

// New creates the context and the fixed part of the graph:
//
//	bus -> sync delay -> output
//	constant -> gain(quality guard) -> sync delay
//	constant -> gain(keep-alive) -> context destination
//
// The output stream carries audio as soon as New returns.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.engine == nil {
		cfg.engine = soft.NewEngine(soft.Config{Logger: cfg.log})
	}

	ctx, err := cfg.engine()
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}

	m := &Manager{
		cfg:     cfg,
		log:     cfg.log,
		ctx:     ctx,
		sources: make(map[string]*SourceChain),
	}
	if err := m.build(); err != nil {
		return nil, errors.Join(err, ctx.Close())
	}

	m.log.WithFields(logrus.Fields{
		"function":   "New",
		"sync_delay": cfg.syncDelay.String(),
	}).Info("Mixer created")

	return m, nil
}

func (m *Manager) build() error {
	var err error
	if m.output, err = m.ctx.CreateMediaStreamDestination(); err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if m.syncDelay, err = m.ctx.CreateDelay(m.cfg.syncDelay.Seconds()); err != nil {
		return fmt.Errorf("creating sync delay: %w", err)
	}
	if m.bus, err = m.ctx.CreateGain(); err != nil {
		return fmt.Errorf("creating merge bus: %w", err)
	}

	m.graph = wiring{
		{m.syncDelay, m.output},
		{m.bus, m.syncDelay},
	}
	if err := m.graph.connect(); err != nil {
		return fmt.Errorf("wiring output: %w", err)
	}

	// quality guard: a producer that always reaches the output
	if err := m.addAux(m.cfg.qualityGuardLevel, m.syncDelay); err != nil {
		return fmt.Errorf("creating quality guard: %w", err)
	}
	// keep-alive: near-silent signal so the context never idles
	if err := m.addAux(m.cfg.keepAliveLevel, m.ctx.Destination()); err != nil {
		return fmt.Errorf("creating keep-alive: %w", err)
	}

	return nil
}

// addAux wires constant -> gain(level) -> target. The level is set before
// the source starts so the chain never jumps from full scale.
func (m *Manager) addAux(level float64, target engine.Node) error {
	src, err := m.ctx.CreateConstantSource()
	if err != nil {
		return err
	}
	gain, err := m.ctx.CreateGain()
	if err != nil {
		return err
	}
	gain.Gain().SetValue(level)

	w := wiring{{src, gain}, {gain, target}}
	if err := w.connect(); err != nil {
		return err
	}
	m.graph = append(m.graph, w...)

	return src.Start()
}

// Context returns the processing context.
func (m *Manager) Context() engine.Context { return m.ctx }

// OutputStream returns the merged output. It is the same stream for the
// manager's whole life.
func (m *Manager) OutputStream() media.Stream { return m.output.Stream() }

// SyncDelay returns the delay stage in front of the output, for aligning the
// audio with an external video pipeline.
func (m *Manager) SyncDelay() engine.DelayNode { return m.syncDelay }

// Sources returns a snapshot of the id to chain mapping.
func (m *Manager) Sources() map[string]*SourceChain {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.sources)
}

// Source returns the chain registered under id.
func (m *Manager) Source(id string) (*SourceChain, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sources[id]
	return c, ok
}

// AddSource wires input into the mix under input.ID() and returns its
// chain. Adding an id that is already present returns the existing chain.
func (m *Manager) AddSource(name string, input media.Input) (*SourceChain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed {
		return nil, ErrDestroyed
	}
	if input == nil || input.ID() == "" {
		m.log.WithFields(logrus.Fields{
			"function": "AddSource",
			"name":     name,
		}).Warn("Rejected input without identity")
		return nil, ErrInvalidInput
	}

	id := input.ID()
	if existing, ok := m.sources[id]; ok {
		m.log.WithFields(logrus.Fields{
			"function":  "AddSource",
			"source_id": id,
			"name":      name,
		}).Warn("Source already added, returning existing chain")
		return existing, nil
	}

	var (
		node engine.Node
		err  error
	)
	switch in := input.(type) {
	case media.Stream:
		node, err = m.ctx.CreateMediaStreamSource(in)
	case media.Element:
		node, err = m.ctx.CreateMediaElementSource(in)
	default:
		m.log.WithFields(logrus.Fields{
			"function":  "AddSource",
			"source_id": id,
			"type":      fmt.Sprintf("%T", input),
		}).Warn("Rejected input of unsupported kind")
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, fmt.Errorf("creating input node: %w", err)
	}

	chain, err := m.newChain(id, name, input, node)
	if err != nil {
		return nil, err
	}
	m.sources[id] = chain

	m.log.WithFields(logrus.Fields{
		"function":  "AddSource",
		"source_id": id,
		"name":      name,
	}).Info("Source added")

	return chain, nil
}

func (m *Manager) newChain(id, name string, input media.Input, node engine.Node) (*SourceChain, error) {
	gain, err := m.ctx.CreateGain()
	if err != nil {
		return nil, fmt.Errorf("creating gain: %w", err)
	}
	if err := gain.Gain().SetValueAtTime(m.cfg.defaultVolume/100, m.ctx.CurrentTime()); err != nil {
		return nil, fmt.Errorf("setting initial gain: %w", err)
	}

	analyser, err := m.ctx.CreateAnalyser()
	if err != nil {
		return nil, fmt.Errorf("creating analyser: %w", err)
	}
	if err := analyser.SetFFTSize(m.cfg.analyserSize); err != nil {
		return nil, fmt.Errorf("sizing analyser: %w", err)
	}

	w := wiring{
		{node, gain},
		{gain, m.bus},
		{node, analyser},
	}
	if err := w.connect(); err != nil {
		return nil, fmt.Errorf("wiring source %s: %w", id, err)
	}

	return &SourceChain{
		id:       id,
		name:     name,
		input:    input,
		node:     node,
		gain:     gain,
		analyser: analyser,
		wiring:   w,
		levels:   make([]byte, analyser.FrequencyBinCount()),
	}, nil
}

// RemoveSource releases the input behind id and unwires its chain. Unknown
// ids are ignored.
func (m *Manager) RemoveSource(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(id)
}

func (m *Manager) removeLocked(id string) {
	chain, ok := m.sources[id]
	if !ok {
		m.log.WithFields(logrus.Fields{
			"function":  "RemoveSource",
			"source_id": id,
		}).Debug("Source not found, nothing to remove")
		return
	}

	log := m.log.WithFields(logrus.Fields{
		"function":  "RemoveSource",
		"source_id": id,
		"name":      chain.name,
	})

	switch in := chain.input.(type) {
	case media.Stream:
		for _, t := range in.Tracks() {
			t.Stop()
		}
	case media.Element:
		in.Pause()
		if err := in.Detach(); err != nil {
			log.WithField("error", err.Error()).Warn("Detaching media element failed")
		}
	}

	if err := chain.wiring.disconnect(); err != nil {
		log.WithField("error", err.Error()).Warn("Unwiring source chain failed")
	}
	chain.node.DisconnectAll()
	delete(m.sources, id)

	log.Info("Source removed")
}

// UpdateVolume sets the gain of id from a 0-100 volume, effective at the
// context's current time. Values outside the range are clamped; unknown ids
// are ignored.
func (m *Manager) UpdateVolume(id string, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.log.WithFields(logrus.Fields{
		"function":  "UpdateVolume",
		"source_id": id,
		"volume":    volume,
	})

	chain, ok := m.sources[id]
	if !ok {
		log.Debug("Source not found, volume unchanged")
		return
	}
	if math.IsNaN(volume) {
		log.Warn("Ignoring NaN volume")
		return
	}

	if err := chain.gain.Gain().SetValueAtTime(clampVolume(volume)/100, m.ctx.CurrentTime()); err != nil {
		log.WithField("error", err.Error()).Warn("Scheduling gain failed")
	}
}

// Volume returns the current volume of id on the 0-100 scale.
func (m *Manager) Volume(id string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain, ok := m.sources[id]
	if !ok {
		return 0, false
	}

	return chain.gain.Gain().Value() * 100, true
}

// VolumeInDecibels returns the loudness of id; see Level.Decibels. ok is
// false when id is unknown. Silence reads as 0; use Loudness to tell it
// apart from full scale.
func (m *Manager) VolumeInDecibels(id string) (int, bool) {
	l, ok := m.Loudness(id)
	return l.Decibels, ok
}

// Loudness polls the analyser of id.
func (m *Manager) Loudness(id string) (Level, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain, ok := m.sources[id]
	if !ok {
		return Level{}, false
	}

	return chain.level(), true
}

// Destroy removes every source, stops the output stream and closes the
// context. The manager cannot be used afterwards; Destroy itself may be
// called again.
func (m *Manager) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed {
		return nil
	}
	m.destroyed = true

	for id := range m.sources {
		m.removeLocked(id)
	}

	for _, t := range m.output.Stream().Tracks() {
		t.Stop()
	}
	m.output.DisconnectAll()
	m.syncDelay.DisconnectAll()

	if err := m.ctx.Close(); err != nil {
		return fmt.Errorf("closing audio context: %w", err)
	}

	m.log.WithField("function", "Destroy").Info("Mixer destroyed")

	return nil
}

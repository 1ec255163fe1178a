// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sirupsen/logrus"
)

// Defaults used by New.
const (
	DefaultVolume       = 100.0
	DefaultSyncDelay    = 5 * time.Second
	DefaultAnalyserSize = 256
	// DefaultKeepAliveLevel is loud enough to count as signal for engines
	// that suspend on silence and far below audibility.
	DefaultKeepAliveLevel    = 0.001
	DefaultQualityGuardLevel = 0.0
)

// EngineFactory creates the processing context a Manager owns.
type EngineFactory func() (engine.Context, error)

type config struct {
	engine            EngineFactory
	defaultVolume     float64
	syncDelay         time.Duration
	analyserSize      int
	keepAliveLevel    float64
	qualityGuardLevel float64
	log               logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		defaultVolume:     DefaultVolume,
		syncDelay:         DefaultSyncDelay,
		analyserSize:      DefaultAnalyserSize,
		keepAliveLevel:    DefaultKeepAliveLevel,
		qualityGuardLevel: DefaultQualityGuardLevel,
		log:               logrus.StandardLogger(),
	}
}

// Option configures a Manager.
type Option func(*config)

// WithEngine sets how the processing context is created. The default is a
// software context at 48 kHz that nothing drives until its owner calls
// Render or Run on it.
func WithEngine(f EngineFactory) Option {
	return func(c *config) { c.engine = f }
}

// WithDefaultVolume sets the volume, on the 0-100 scale, that new sources
// start at.
func WithDefaultVolume(volume float64) Option {
	return func(c *config) { c.defaultVolume = clampVolume(volume) }
}

// WithSyncDelay sets the capacity of the delay stage in front of the output.
func WithSyncDelay(d time.Duration) Option {
	return func(c *config) { c.syncDelay = d }
}

// WithAnalyserSize sets the FFT size of each source's level analyser.
func WithAnalyserSize(size int) Option {
	return func(c *config) { c.analyserSize = size }
}

// WithKeepAliveLevel sets the gain of the keep-alive chain into the context
// destination.
func WithKeepAliveLevel(level float64) Option {
	return func(c *config) { c.keepAliveLevel = level }
}

// WithQualityGuardLevel sets the gain of the constant feeding the sync delay.
func WithQualityGuardLevel(level float64) Option {
	return func(c *config) { c.qualityGuardLevel = level }
}

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 100)
}

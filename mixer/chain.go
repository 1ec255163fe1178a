// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"sync"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/media"
)

// SourceChain is the processing path of one source: its input node feeds a
// gain stage into the merge bus and, in parallel, a level analyser.
type SourceChain struct {
	id       string
	name     string
	input    media.Input
	node     engine.Node
	gain     engine.GainNode
	analyser engine.AnalyserNode
	wiring   wiring

	mu     sync.Mutex
	levels []byte
}

// ID is the identity of the input the chain was created for.
func (c *SourceChain) ID() string { return c.id }

// Name is the label given to AddSource.
func (c *SourceChain) Name() string { return c.name }

// Input is the media the chain plays.
func (c *SourceChain) Input() media.Input { return c.input }

// Node is the engine node reading Input.
func (c *SourceChain) Node() engine.Node { return c.node }

// Gain is the volume stage between Node and the merge bus.
func (c *SourceChain) Gain() engine.GainNode { return c.gain }

// Analyser meters Node before the gain stage.
func (c *SourceChain) Analyser() engine.AnalyserNode { return c.analyser }

// Level is a loudness reading.
type Level struct {
	// Decibels is floor(20*log10(Average/255)): 0 at full scale and for
	// silence, negative otherwise.
	Decibels int
	// Average is the mean of the analyser's byte frequency bins.
	Average float64
	// Silent is set when every bin was zero.
	Silent bool
}

func (c *SourceChain) level() Level {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.analyser.ByteFrequencyData(c.levels)

	return loudness(c.levels)
}

func loudness(bins []byte) Level {
	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	if sum == 0 {
		return Level{Silent: true}
	}

	avg := float64(sum) / float64(len(bins))

	return Level{
		Decibels: int(math.Floor(20 * math.Log10(avg/255))),
		Average:  avg,
	}
}

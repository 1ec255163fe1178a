// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/media"
)

type gainNode struct {
	*base
	gain *param
}

func (n *gainNode) Gain() engine.Param { return n.gain }

func (n *gainNode) process(in, out []float32) {
	n.gain.advance(n.ctx.now())
	g := float32(n.gain.value)
	for i, v := range in {
		out[i] = v * g
	}
}

// delayNode is a whole-sample delay line.
type delayNode struct {
	*base
	delayTime *param
	line      []float32
	w         int
}

func (n *delayNode) DelayTime() engine.Param { return n.delayTime }

func (n *delayNode) process(in, out []float32) {
	n.delayTime.advance(n.ctx.now())
	d := int(math.Round(n.delayTime.value * float64(n.ctx.sampleRate)))
	d = min(max(d, 0), len(n.line)-1)

	size := len(n.line)
	for i, v := range in {
		n.line[n.w] = v
		out[i] = n.line[(n.w-d+size)%size]
		n.w = (n.w + 1) % size
	}
}

type constantNode struct {
	*base
	offset  *param
	started bool
	stopped bool
}

func (n *constantNode) Offset() engine.Param { return n.offset }

func (n *constantNode) Start() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.started {
		return engine.ErrAlreadyStarted
	}
	n.started = true

	return nil
}

// Stop silences the node for good.
func (n *constantNode) Stop() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if !n.started {
		return engine.ErrNotStarted
	}
	n.stopped = true

	return nil
}

func (n *constantNode) process(_, out []float32) {
	n.offset.advance(n.ctx.now())
	v := float32(0)
	if n.started && !n.stopped {
		v = float32(n.offset.value)
	}
	for i := range out {
		out[i] = v
	}
}

// streamDestination records its input into a live track.
type streamDestination struct {
	*base
	track  *media.LiveTrack
	stream *media.CaptureStream
}

func (n *streamDestination) Stream() media.Stream { return n.stream }

func (n *streamDestination) process(in, out []float32) {
	copy(out, in)
	// a stop racing the render drops this quantum
	_, _ = n.track.Write(out)
}

// destination is the context output. It feeds the monitor and watches for
// digital silence.
type destination struct {
	*base
	silent int64 // consecutive silent frames
}

func (n *destination) process(in, out []float32) {
	copy(out, in)

	for _, v := range out {
		if v != 0 {
			n.silent = 0
			return
		}
	}
	n.silent += int64(len(out))
}

// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"slices"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sirupsen/logrus"
)

// processor renders one quantum. in holds the sum of every connected input
// and is all zeros for nodes without inputs.
type processor interface {
	process(in, out []float32)
}

// softNode is implemented by every node this package creates.
type softNode interface {
	node() *base
}

// base carries the graph bookkeeping shared by all nodes. Everything here is
// guarded by ctx.mu.
type base struct {
	ctx  *Context
	kind string
	impl processor

	hasInput  bool
	hasOutput bool
	// autoPull nodes render every quantum while they have inputs, even with
	// nothing downstream.
	autoPull bool

	inputs  []*base
	outputs []*base

	mix      []float32
	out      []float32
	rendered int64
}

func newBase(ctx *Context, kind string, hasInput, hasOutput bool) *base {
	return &base{
		ctx:       ctx,
		kind:      kind,
		hasInput:  hasInput,
		hasOutput: hasOutput,
		mix:       make([]float32, RenderQuantum),
		out:       make([]float32, RenderQuantum),
		rendered:  -1,
	}
}

func (b *base) node() *base { return b }

// NumInputs returns how many nodes are connected into this one.
func (b *base) NumInputs() int {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	return len(b.inputs)
}

// NumOutputs returns how many nodes this one is connected to.
func (b *base) NumOutputs() int {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	return len(b.outputs)
}

func (b *base) resolve(n engine.Node) (*base, error) {
	sn, ok := n.(softNode)
	if !ok || sn.node() == nil || sn.node().ctx != b.ctx {
		return nil, engine.ErrForeignNode
	}

	return sn.node(), nil
}

func (b *base) Connect(dst engine.Node) error {
	to, err := b.resolve(dst)
	if err != nil {
		return err
	}

	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	switch {
	case b.ctx.state == engine.StateClosed:
		return engine.ErrContextClosed
	case !b.hasOutput:
		return engine.ErrNoOutput
	case !to.hasInput:
		return engine.ErrNoInput
	}

	if slices.Contains(b.outputs, to) {
		return nil
	}
	b.outputs = append(b.outputs, to)
	to.inputs = append(to.inputs, b)
	if to.autoPull {
		b.ctx.pulled[to] = struct{}{}
	}

	b.ctx.log.WithFields(logrus.Fields{
		"function": "Connect",
		"from":     b.kind,
		"to":       to.kind,
	}).Debug("Nodes connected")

	return nil
}

func (b *base) Disconnect(dst engine.Node) error {
	to, err := b.resolve(dst)
	if err != nil {
		return err
	}

	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	if !slices.Contains(b.outputs, to) {
		return engine.ErrNotConnected
	}
	b.unlink(to)

	b.ctx.log.WithFields(logrus.Fields{
		"function": "Disconnect",
		"from":     b.kind,
		"to":       to.kind,
	}).Debug("Nodes disconnected")

	return nil
}

func (b *base) DisconnectAll() {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	for _, to := range slices.Clone(b.outputs) {
		b.unlink(to)
	}
}

func (b *base) unlink(to *base) {
	b.outputs = slices.DeleteFunc(b.outputs, func(n *base) bool { return n == to })
	to.inputs = slices.DeleteFunc(to.inputs, func(n *base) bool { return n == b })
	if to.autoPull && len(to.inputs) == 0 {
		delete(b.ctx.pulled, to)
	}
}

// pull renders the node for quantum q once and returns its output. A node
// reached again through a cycle returns its previous output.
func (b *base) pull(q int64) []float32 {
	if b.rendered == q {
		return b.out
	}
	b.rendered = q

	clear(b.mix)
	for _, in := range b.inputs {
		for i, v := range in.pull(q) {
			b.mix[i] += v
		}
	}
	b.impl.process(b.mix, b.out)

	return b.out
}

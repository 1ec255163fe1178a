// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math"
	"slices"

	"github.com/sajadjafari/audio-merger/engine"
)

type event struct {
	time  float64
	value float64
}

// param is an engine.Param on the context clock. Scheduled values are
// applied when the clock reaches them, at quantum granularity while
// rendering.
type param struct {
	ctx      *Context
	value    float64
	min, max float64
	events   []event
}

func newParam(ctx *Context, value, lo, hi float64) *param {
	return &param{ctx: ctx, value: value, min: lo, max: hi}
}

func (p *param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.advance(p.ctx.now())

	return p.value
}

// SetValue changes the value now. Events scheduled for later are kept.
func (p *param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.advance(p.ctx.now())
	p.value = p.clamp(v)
}

func (p *param) SetValueAtTime(v, t float64) error {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return engine.ErrNegativeTime
	}

	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	// after any event at the same time
	i, _ := slices.BinarySearchFunc(p.events, t, func(e event, t float64) int {
		if e.time <= t {
			return -1
		}
		return 1
	})
	p.events = slices.Insert(p.events, i, event{time: t, value: p.clamp(v)})
	p.advance(p.ctx.now())

	return nil
}

// advance applies every event due at or before t. Callers hold ctx.mu.
func (p *param) advance(t float64) {
	n := 0
	for n < len(p.events) && p.events[n].time <= t {
		p.value = p.events[n].value
		n++
	}
	if n > 0 {
		p.events = slices.Delete(p.events, 0, n)
	}
}

func (p *param) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.value
	}

	return min(max(v, p.min), p.max)
}

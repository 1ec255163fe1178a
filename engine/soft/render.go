// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"context"
	"time"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sirupsen/logrus"
)

// tick is how often Run wakes up to catch the graph up with the wall clock.
const tick = 10 * time.Millisecond

// Render processes at least frames frames, rounded up to whole quanta, and
// returns how many were rendered. A context that is or becomes suspended
// stops early.
func (c *Context) Render(frames int) (int, error) {
	rendered := 0
	for rendered < frames {
		ok, err := c.renderQuantum()
		if err != nil {
			return rendered, err
		}
		if !ok {
			break
		}
		rendered += RenderQuantum
	}

	return rendered, nil
}

// renderQuantum pulls the graph once. ok is false while suspended.
func (c *Context) renderQuantum() (ok bool, err error) {
	c.mu.Lock()

	switch c.state {
	case engine.StateClosed:
		c.mu.Unlock()
		return false, engine.ErrContextClosed
	case engine.StateSuspended:
		c.mu.Unlock()
		return false, nil
	}

	c.quantum++
	q := c.quantum

	out := c.dest.pull(q)
	for _, s := range c.sinks {
		s.pull(q)
	}
	for n := range c.pulled {
		n.pull(q)
	}
	c.frame += RenderQuantum

	monitor := c.monitor
	if monitor != nil {
		copy(c.monitorq, out)
	}

	if c.idleFrames > 0 && c.dest.silent >= c.idleFrames {
		c.state = engine.StateSuspended
		c.log.WithFields(logrus.Fields{
			"function": "renderQuantum",
			"time":     c.now(),
		}).Info("Audio context suspended after idle silence")
	}
	c.mu.Unlock()

	if monitor != nil {
		monitor(c.monitorq)
	}

	return true, nil
}

// Run renders in real time until ctx is cancelled or the context is closed.
// While suspended the clock does not advance and no backlog builds up.
func (c *Context) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return engine.ErrAlreadyStarted
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	start := time.Now()
	var due int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case now := <-ticker.C:
			target := int64(now.Sub(start).Seconds() * float64(c.sampleRate))
			for due < target {
				ok, err := c.renderQuantum()
				if err == engine.ErrContextClosed {
					return nil
				}
				if !ok {
					// suspended: restart the wall clock reference
					start, due = now, 0
					break
				}
				due += RenderQuantum
			}
		}
	}
}

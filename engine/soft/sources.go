// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"io"

	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sirupsen/logrus"
)

// feed is one conformed input of a source node.
type feed struct {
	src  audio.Source
	done bool
}

// fill reads up to len(dst) samples, stopping early when the input has
// nothing buffered. It reports how many samples were written.
func (f *feed) fill(dst []float32, log logrus.FieldLogger) int {
	n := 0
	for n < len(dst) && !f.done {
		got, err := f.src.ReadSamples(dst[n:])
		n += got
		if err == io.EOF {
			f.done = true
			break
		}
		if err != nil {
			log.WithFields(logrus.Fields{
				"function": "fill",
				"error":    err.Error(),
			}).Warn("Input read failed, dropping input")
			f.done = true
			break
		}
		if got == 0 {
			break
		}
	}

	return n
}

// streamSource sums every track of a stream that existed at creation.
type streamSource struct {
	*base
	tracks []media.Track
	feeds  []*feed
	tmp    []float32
}

func (n *streamSource) process(_, out []float32) {
	clear(out)
	for i, f := range n.feeds {
		if f.done || n.tracks[i].Ended() {
			continue
		}
		got := f.fill(n.tmp, n.ctx.log)
		for j, v := range n.tmp[:got] {
			out[j] += v
		}
	}
}

// elementReader adapts a media element to audio.Source so it can be
// conformed. Closing is left to the element's owner.
type elementReader struct {
	media.Element
}

func (elementReader) BufSize() int { return 4096 }
func (elementReader) Close() error { return nil }

type elementSource struct {
	*base
	element media.Element
	feed    *feed
}

// process keeps pulling after the element has ended so audio still held by
// the conform stage reaches the output; only a paused element is gated.
func (n *elementSource) process(_, out []float32) {
	if n.feed.done || (n.element.Paused() && !n.element.Ended()) {
		clear(out)
		return
	}

	got := n.feed.fill(out, n.ctx.log)
	clear(out[got:])
}

// Drained reports whether the element has been read to its end and nothing
// is left in flight.
func (n *elementSource) Drained() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.feed.done
}

// Drained reports whether every track the node took has been read to its
// end or stopped.
func (n *streamSource) Drained() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	for i, f := range n.feeds {
		if !f.done && !n.tracks[i].Ended() {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: EPL-2.0

package media

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sajadjafari/audio-merger/internal/ring"
)

// DefaultTrackCapacity is how much audio a LiveTrack buffers before the
// oldest samples are overwritten.
const DefaultTrackCapacity = 5 * time.Second

// LiveTrack is a Track fed by a producer calling Write. When the reader falls
// behind by more than the capacity, the oldest audio is dropped.
type LiveTrack struct {
	id         string
	sampleRate int
	channels   int
	buf        *ring.Buffer[float32]
	stopped    atomic.Bool
}

// NewLiveTrack creates a track of interleaved PCM. A capacity of zero means
// DefaultTrackCapacity.
func NewLiveTrack(sampleRate, channels int, capacity time.Duration) *LiveTrack {
	if channels < 1 {
		channels = 1
	}
	if capacity <= 0 {
		capacity = DefaultTrackCapacity
	}

	frames := max(1, int(capacity.Seconds()*float64(sampleRate)))

	return &LiveTrack{
		id:         uuid.NewString(),
		sampleRate: sampleRate,
		channels:   channels,
		buf:        ring.New[float32](frames * channels),
	}
}

func (t *LiveTrack) ID() string      { return t.id }
func (t *LiveTrack) SampleRate() int { return t.sampleRate }
func (t *LiveTrack) Channels() int   { return t.channels }
func (t *LiveTrack) BufSize() int    { return t.buf.Cap() }

// Buffered returns the number of unread samples.
func (t *LiveTrack) Buffered() int { return t.buf.Len() }

// Write queues interleaved samples for the reader.
func (t *LiveTrack) Write(samples []float32) (int, error) {
	if t.stopped.Load() {
		return 0, ErrTrackEnded
	}
	if len(samples)%t.channels != 0 {
		return 0, ErrPartialFrame
	}

	return t.buf.Write(samples), nil
}

// ReadSamples returns whatever whole frames are buffered, up to len(dst).
// Once the track is stopped and drained it returns io.EOF.
func (t *LiveTrack) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%t.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := t.buf.Read(dst)
	if errors.Is(err, ring.ErrEmptyBuffer) {
		if t.stopped.Load() {
			return 0, io.EOF
		}
		return 0, nil
	}

	return n, err
}

func (t *LiveTrack) Stop() { t.stopped.Store(true) }

func (t *LiveTrack) Ended() bool { return t.stopped.Load() }

// Close stops the track.
func (t *LiveTrack) Close() error {
	t.Stop()
	return nil
}

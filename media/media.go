// SPDX-License-Identifier: EPL-2.0

package media

import "github.com/sajadjafari/audio-merger/audio"

// Input is anything a mixer can take as a source. Concrete inputs also
// implement Stream or Element.
type Input interface {
	// ID is the identity token of the underlying media object.
	ID() string
}

// Track is one live audio track of a Stream. ReadSamples returns 0 with a nil
// error while the producer has not delivered anything new.
type Track interface {
	audio.Source

	ID() string
	// Stop ends the track and releases its producer. It is idempotent.
	Stop()
	Ended() bool
}

// Stream is a live capture made of zero or more audio tracks.
type Stream interface {
	Input
	Tracks() []Track
}

// Element is playable media with transport controls. While paused it yields
// no samples; after the last sample ReadSamples reports io.EOF.
type Element interface {
	Input

	SampleRate() int
	Channels() int
	ReadSamples(dst []float32) (int, error)

	Play() error
	Pause()
	Paused() bool
	Ended() bool
	// Detach pauses the element and releases what it plays from. A detached
	// element cannot be played again.
	Detach() error
}

// SPDX-License-Identifier: EPL-2.0

package media

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sajadjafari/audio-merger/audio"
)

// FileElement plays a decoded source. It starts paused, the way a freshly
// loaded media element does.
type FileElement struct {
	id  string
	src audio.Source

	mu       sync.Mutex
	paused   bool
	ended    bool
	detached bool
	frames   int64
}

func NewFileElement(src audio.Source) *FileElement {
	return NewFileElementWithID(uuid.NewString(), src)
}

func NewFileElementWithID(id string, src audio.Source) *FileElement {
	return &FileElement{id: id, src: src, paused: true}
}

// OpenFile decodes path with the decoder registered for its extension.
// Detaching the element closes the file.
func OpenFile(path string, registry *audio.Registry) (*FileElement, error) {
	dec, err := registry.Lookup(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening media: %w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return NewFileElement(src), nil
}

func (e *FileElement) ID() string      { return e.id }
func (e *FileElement) SampleRate() int { return e.src.SampleRate() }
func (e *FileElement) Channels() int   { return e.src.Channels() }

func (e *FileElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.detached:
		return ErrDetached
	case e.ended:
		return ErrEnded
	}
	e.paused = false

	return nil
}

func (e *FileElement) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

func (e *FileElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.paused
}

func (e *FileElement) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ended
}

// Position is how much audio has been played.
func (e *FileElement) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return time.Duration(e.frames) * time.Second / time.Duration(e.src.SampleRate())
}

func (e *FileElement) Detach() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.detached {
		return nil
	}
	e.detached = true
	e.paused = true

	if err := e.src.Close(); err != nil {
		return fmt.Errorf("closing media source: %w", err)
	}

	return nil
}

// ReadSamples returns nothing while paused. Reaching the end of the source,
// or failing to decode it, pauses the element and marks it ended.
func (e *FileElement) ReadSamples(dst []float32) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ended || e.detached {
		return 0, io.EOF
	}
	if e.paused {
		return 0, nil
	}

	n, err := e.src.ReadSamples(dst)
	e.frames += int64(n / e.src.Channels())
	switch {
	case err == io.EOF:
		e.ended = true
		e.paused = true
		return n, io.EOF
	case err != nil:
		e.ended = true
		e.paused = true
		return n, fmt.Errorf("reading media: %w", err)
	}

	return n, nil
}

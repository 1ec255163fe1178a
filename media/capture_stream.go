// SPDX-License-Identifier: EPL-2.0

package media

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// CaptureStream groups live tracks under one identity.
type CaptureStream struct {
	id string

	mu     sync.RWMutex
	tracks []Track
}

// NewCaptureStream creates a stream with a fresh UUID.
func NewCaptureStream(tracks ...Track) *CaptureStream {
	return NewCaptureStreamWithID(uuid.NewString(), tracks...)
}

// NewCaptureStreamWithID creates a stream that reports id, for inputs whose
// identity comes from elsewhere (a remote peer, a device).
func NewCaptureStreamWithID(id string, tracks ...Track) *CaptureStream {
	return &CaptureStream{id: id, tracks: slices.Clone(tracks)}
}

func (s *CaptureStream) ID() string { return s.id }

// Tracks returns a snapshot of the stream's tracks.
func (s *CaptureStream) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tracks)
}

func (s *CaptureStream) AddTrack(t Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.tracks, t) {
		s.tracks = append(s.tracks, t)
	}
}

// Stop ends every track.
func (s *CaptureStream) Stop() {
	for _, t := range s.Tracks() {
		t.Stop()
	}
}

// Active reports whether any track is still running.
func (s *CaptureStream) Active() bool {
	return slices.ContainsFunc(s.Tracks(), func(t Track) bool { return !t.Ended() })
}

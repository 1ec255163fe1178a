// SPDX-License-Identifier: EPL-2.0

package media_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureStream_Identity(t *testing.T) {
	s := media.NewCaptureStream()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)

	assert.NotEqual(t, s.ID(), media.NewCaptureStream().ID())
	assert.Equal(t, "peer-7", media.NewCaptureStreamWithID("peer-7").ID())
}

func TestCaptureStream_Tracks(t *testing.T) {
	mic := media.NewLiveTrack(48000, 1, 0)
	s := media.NewCaptureStream(mic)

	screen := media.NewLiveTrack(48000, 2, 0)
	s.AddTrack(screen)
	s.AddTrack(screen)

	tracks := s.Tracks()
	require.Len(t, tracks, 2)

	// snapshot, not the internal slice
	tracks[0] = nil
	assert.NotNil(t, s.Tracks()[0])
}

func TestCaptureStream_Stop(t *testing.T) {
	a := media.NewLiveTrack(48000, 1, 0)
	b := media.NewLiveTrack(48000, 1, 0)
	s := media.NewCaptureStream(a, b)
	assert.True(t, s.Active())

	a.Stop()
	assert.True(t, s.Active())

	s.Stop()
	assert.True(t, b.Ended())
	assert.False(t, s.Active())
}

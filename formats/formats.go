// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/formats/aiff"
	"github.com/sajadjafari/audio-merger/formats/mp3"
	"github.com/sajadjafari/audio-merger/formats/vorbis"
	"github.com/sajadjafari/audio-merger/formats/wav"
)

// NewRegistry returns a registry keyed by file extension with the WAV, MP3,
// Ogg Vorbis and AIFF decoders.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})

	return r
}

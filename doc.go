// SPDX-License-Identifier: EPL-2.0

// Package audiomerger mixes several audio sources into one stream with
// per-source volume and loudness readout.
//
// The real-time core lives in the mixer package: a Manager keeps one gain
// stage and one level analyser per source, sums every source on a shared
// bus and exposes the result as a live media stream. The engine package
// defines the processing graph it drives and engine/soft implements it in
// pure Go.
//
// This package adds Mixdown, which runs the same graph offline over a set
// of audio files and writes the merged result to a WAV file:
//
//	out, _ := os.Create("mix.wav")
//	defer out.Close()
//
//	res, err := audiomerger.Mixdown(out, []audiomerger.FileSource{
//	    {Name: "voice", Path: "voice.wav", Volume: 100},
//	    {Name: "music", Path: "music.ogg", Volume: 30},
//	}, audiomerger.Config{})
//
// # Supported Formats
//
// Files are decoded by extension:
//   - WAV (PCM 16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16/24/32-bit) via formats/aiff
//
// Every source is downmixed to mono and resampled to the engine rate as it
// is read. The output is 16-bit mono PCM.
//
// # Package Layout
//
//   - mixer: source graph manager
//   - engine, engine/soft: processing graph contract and software engine
//   - media: live capture streams and file-backed media elements
//   - audio: Source, Decoder, Registry, MonoMixer, Resampler
//   - formats/*: decoders and the WAV writer
//   - cmd/audiomerger: command line mixdown and interactive console
package audiomerger

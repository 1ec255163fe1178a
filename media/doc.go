// SPDX-License-Identifier: EPL-2.0

// Package media models the inputs a mixer accepts and the stream it produces.
//
// There are two kinds of input. A Stream is a live capture made of Tracks,
// such as a microphone or a remote participant; CaptureStream and LiveTrack
// implement it with a producer writing PCM into a ring buffer. An Element is
// a playable piece of media with transport controls; FileElement implements
// it over a decoded file.
//
//	track := media.NewLiveTrack(48000, 1, 0)
//	stream := media.NewCaptureStream(track)
//	go produce(track) // track.Write(block) as audio arrives
//
//	el, err := media.OpenFile("intro.mp3", formats.NewRegistry())
//	err = el.Play()
//
// Both kinds carry a stable identity through ID. Generated ids are UUIDs.
package media

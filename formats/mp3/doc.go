// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III files through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits 16-bit stereo, so every source reports two channels
// regardless of the file; mono files come out with both channels equal. Use
// audio.Conform to get the mixer's mono format:
//
//	f, _ := os.Open("music.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close() // closes f
//	mono := audio.Conform(src, 48000)
package mp3

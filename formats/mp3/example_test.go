// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"
	"log"
	"os"

	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/formats/mp3"
)

// ExampleDecoder_Decode decodes an MP3 file and downmixes it for the mixer.
func ExampleDecoder_Decode() {
	f, err := os.Open("music.mp3")
	if err != nil {
		log.Fatal(err)
	}

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	mono := audio.Conform(src, 48000)
	fmt.Println(src.Channels(), "->", mono.Channels())
}

// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"fmt"
	"log"
	"os"

	"github.com/sajadjafari/audio-merger/formats/vorbis"
)

func ExampleDecoder_Decode() {
	f, err := os.Open("ambience.ogg")
	if err != nil {
		log.Fatal(err)
	}

	src, err := vorbis.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())
}

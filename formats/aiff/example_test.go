// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"context"
	"log"
	"os"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/aiff"
	"github.com/ik5/audtrim/formats/wav"
)

// Example converts an AIFF file to a 16 bit WAV file.
func Example() {
	in, err := os.Open("sample.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	src, err := aiff.Decoder{}.Decode(in)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	buf, err := audio.Collect(context.Background(), src)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create("sample.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := wav.Encode(out, buf, wav.PCM16); err != nil {
		log.Fatal(err)
	}
}

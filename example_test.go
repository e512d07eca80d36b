// SPDX-License-Identifier: EPL-2.0

package audtrim_test

import (
	"context"
	"fmt"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
)

func ExampleTrim() {
	// Two seconds of 8 kHz mono PCM.
	asset := audio.NewBytesAsset("memo.wav", audiotest.SineWAV16(8000, 1, 2))

	res, err := audtrim.Trim(context.Background(), asset, 0.5, 1.5, audtrim.Options{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Name, res.MIMEType)
	fmt.Println(res.Frames, "frames,", len(res.Bytes), "bytes")
	// Output:
	// memo-trimmed.wav audio/wav
	// 8000 frames, 16044 bytes
}

func ExampleSelect() {
	fmt.Println(audtrim.Select(8, 20, 10, 4))
	fmt.Println(audtrim.Select(5, 5, 10, 0))
	// Output:
	// [6.000, 10.000)
	// [0.000, 10.000)
}

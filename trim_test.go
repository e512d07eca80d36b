// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"context"
	"errors"
	"testing"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/decode"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/region"
)

func TestTrim_MaxDurationScenario(t *testing.T) {
	t.Parallel()

	asset := audio.NewBytesAsset("talk.wav", audiotest.SineWAV16(24000, 1, 20))

	res, err := Trim(context.Background(), asset, 5, 35, Options{MaxDuration: 30})
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}

	if want := (region.Region{Start: 5, End: 20}); res.Region != want {
		t.Errorf("region = %v, want %v", res.Region, want)
	}

	if res.Frames != 15*24000 {
		t.Errorf("frames = %d, want %d", res.Frames, 15*24000)
	}

	if res.Name != "talk-trimmed.wav" {
		t.Errorf("name = %q", res.Name)
	}
}

func TestTrim_Encodings(t *testing.T) {
	t.Parallel()

	asset := audio.NewBytesAsset("tone.wav", audiotest.SineWAV16(8000, 2, 2))

	tests := []struct {
		name string
		enc  wav.Encoding
		want int
	}{
		{"pcm16", wav.PCM16, wav.EncodedSize(8000, 2, wav.PCM16)},
		{"float32", wav.Float32, wav.EncodedSize(8000, 2, wav.Float32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := Trim(context.Background(), asset, 0.5, 1.5, Options{Encoding: tt.enc})
			if err != nil {
				t.Fatalf("Trim: %v", err)
			}

			if len(res.Bytes) != tt.want {
				t.Errorf("len = %d, want %d", len(res.Bytes), tt.want)
			}
		})
	}
}

func TestTrim_DecodeError(t *testing.T) {
	t.Parallel()

	_, err := Trim(context.Background(), audio.NewBytesAsset("x.wav", []byte("garbage")), 0, 1, Options{})
	if !errors.Is(err, decode.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}

	if _, err := Trim(context.Background(), nil, 0, 1, Options{}); err == nil {
		t.Fatal("nil asset accepted")
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end float64
		max        float64
		want       region.Region
	}{
		{"inside", 1, 3, 0, region.Region{Start: 1, End: 3}},
		{"reversed", 3, 1, 0, region.Region{Start: 1, End: 3}},
		{"capped", 2, 9, 4, region.Region{Start: 2, End: 6}},
		{"capped near end", 8, 20, 4, region.Region{Start: 6, End: 10}},
		{"past end", 12, 15, 0, region.Region{Start: 0, End: 10}},
		{"collapsed with max", 4, 4, 3, region.Region{Start: 0, End: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Select(tt.start, tt.end, 10, tt.max); got != tt.want {
				t.Errorf("Select(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

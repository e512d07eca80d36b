// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/utils"
)

func TestEncode_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		enc        Encoding
		format     uint16
		bits       uint16
		blockAlign uint16
	}{
		{"pcm16", PCM16, 1, 16, 4},
		{"float32", Float32, 3, 32, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := audio.NewBuffer(24000, 2, 10)
			out := new(bytes.Buffer)

			if err := Encode(out, buf, tt.enc); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			data := out.Bytes()
			le := binary.LittleEndian

			if len(data) != EncodedSize(10, 2, tt.enc) {
				t.Fatalf("len = %d, want %d", len(data), EncodedSize(10, 2, tt.enc))
			}

			if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" ||
				string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
				t.Errorf("chunk ids = %q", data[:40])
			}

			checks := []struct {
				field string
				got   uint32
				want  uint32
			}{
				{"riff size", le.Uint32(data[4:8]), uint32(len(data) - 8)},
				{"fmt size", le.Uint32(data[16:20]), 16},
				{"format", uint32(le.Uint16(data[20:22])), uint32(tt.format)},
				{"channels", uint32(le.Uint16(data[22:24])), 2},
				{"sample rate", le.Uint32(data[24:28]), 24000},
				{"byte rate", le.Uint32(data[28:32]), 24000 * uint32(tt.blockAlign)},
				{"block align", uint32(le.Uint16(data[32:34])), uint32(tt.blockAlign)},
				{"bits", uint32(le.Uint16(data[34:36])), uint32(tt.bits)},
				{"data size", le.Uint32(data[40:44]), 10 * uint32(tt.blockAlign)},
			}

			for _, c := range checks {
				if c.got != c.want {
					t.Errorf("%s = %d, want %d", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestEncode_PCM16Values(t *testing.T) {
	t.Parallel()

	buf := &audio.Buffer{
		SampleRate: 8000,
		Data: [][]float32{
			{-1, 1, -0.5, 2},
			{0.5, 0, -3, float32(math.NaN())},
		},
	}

	out := new(bytes.Buffer)
	if err := Encode(out, buf, PCM16); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// Frame-major: L0 R0 L1 R1 ...
	want := []int16{-32768, 16383, 32767, 0, -16384, -32768, 32767, 0}
	got := make([]int16, len(want))

	if err := binary.Read(bytes.NewReader(out.Bytes()[HeaderSize:]), binary.LittleEndian, got); err != nil {
		t.Fatalf("read data: %v", err)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEncode_Float32Values(t *testing.T) {
	t.Parallel()

	buf := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.25, -1.5, 1.5}}}

	out := new(bytes.Buffer)
	if err := Encode(out, buf, Float32); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []float32{0.25, -1, 1}
	got := make([]float32, len(want))

	if err := binary.Read(bytes.NewReader(out.Bytes()[HeaderSize:]), binary.LittleEndian, got); err != nil {
		t.Fatalf("read data: %v", err)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineBuffer(22050, 2, 0.5, 330, 0.9)

	for _, enc := range []Encoding{PCM16, Float32} {
		t.Run(enc.String(), func(t *testing.T) {
			t.Parallel()

			out := new(bytes.Buffer)
			if err := Encode(out, src, enc); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got := decodeAll(t, out.Bytes())

			if got.Frames() != src.Frames() || got.Channels() != src.Channels() || got.SampleRate != src.SampleRate {
				t.Fatalf("decoded %d frames %d ch %d Hz, want %d frames %d ch %d Hz",
					got.Frames(), got.Channels(), got.SampleRate, src.Frames(), src.Channels(), src.SampleRate)
			}

			tolerance := 0.0
			if enc == PCM16 {
				tolerance = 1.0 / 32767
			}

			for ch := range src.Data {
				for f, v := range src.Data[ch] {
					want := utils.ClampUnit(v)
					if diff := math.Abs(float64(got.Data[ch][f] - want)); diff > tolerance+1e-7 {
						t.Fatalf("ch %d frame %d = %v, want %v (±%v)", ch, f, got.Data[ch][f], want, tolerance)
					}
				}
			}
		})
	}
}

func TestEncode_LargeBufferSpansChunks(t *testing.T) {
	t.Parallel()

	buf := audiotest.NewRampBuffer(44100, 1, encodeChunk*2+17)
	out := new(bytes.Buffer)

	if err := Encode(out, buf, PCM16); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if out.Len() != EncodedSize(buf.Frames(), 1, PCM16) {
		t.Errorf("len = %d, want %d", out.Len(), EncodedSize(buf.Frames(), 1, PCM16))
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	if err := Encode(new(bytes.Buffer), &audio.Buffer{SampleRate: 8000}, PCM16); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("Encode(no channels) error = %v, want ErrEmptyBuffer", err)
	}

	if err := Encode(new(bytes.Buffer), audio.NewBuffer(8000, 1, 1), Encoding(7)); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("Encode(bad encoding) error = %v, want ErrUnsupportedEncoding", err)
	}
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Encoding{"pcm16": PCM16, "": PCM16, "FLOAT32": Float32} {
		got, err := ParseEncoding(in)
		if err != nil || got != want {
			t.Errorf("ParseEncoding(%q) = %v, %v, want %v", in, got, err, want)
		}
	}

	if _, err := ParseEncoding("mulaw"); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("ParseEncoding(mulaw) error = %v, want ErrUnsupportedEncoding", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	buf := audiotest.NewSineBuffer(44100, 2, 5, 440, 0.8)

	b.ReportAllocs()
	for b.Loop() {
		if err := Encode(new(bytes.Buffer), buf, PCM16); err != nil {
			b.Fatal(err)
		}
	}
}

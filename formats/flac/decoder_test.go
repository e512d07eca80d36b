// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audtrim/audio"
	"github.com/mewkiz/flac/frame"
)

// mockParser hands out prepared frames.
type mockParser struct {
	frames []*frame.Frame
	err    error
}

func (m *mockParser) ParseNext() (*frame.Frame, error) {
	if len(m.frames) == 0 {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}

	f := m.frames[0]
	m.frames = m.frames[1:]

	return f, nil
}

// block builds a stereo frame whose right channel is the negated left.
func block(left ...int32) *frame.Frame {
	right := make([]int32, len(left))
	for i, v := range left {
		right[i] = -v
	}

	f := &frame.Frame{Subframes: []*frame.Subframe{{Samples: left}, {Samples: right}}}
	f.BlockSize = uint16(len(left))

	return f
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS not flac"))); err == nil {
		t.Error("Decode() error = nil, want error")
	}
}

func TestSource_ReadAcrossFrames(t *testing.T) {
	t.Parallel()

	src := &source{
		stream:     &mockParser{frames: []*frame.Frame{block(0, 16384, -16384), block(32767, -32768)}},
		sampleRate: 44100,
		channels:   2,
		bitDepth:   16,
		frames:     5,
	}

	buf, err := audio.Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if buf.Frames() != 5 {
		t.Fatalf("Frames() = %d, want 5", buf.Frames())
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768, -1}
	for i := range want {
		if buf.Data[0][i] != want[i] {
			t.Errorf("left[%d] = %v, want %v", i, buf.Data[0][i], want[i])
		}
		if buf.Data[1][i] != -want[i] {
			t.Errorf("right[%d] = %v, want %v", i, buf.Data[1][i], -want[i])
		}
	}
}

func TestSource_SmallReads(t *testing.T) {
	t.Parallel()

	src := &source{
		stream:   &mockParser{frames: []*frame.Frame{block(1, 2, 3, 4, 5)}},
		channels: 2,
		bitDepth: 8,
	}

	dst := make([]float32, 4)
	total := 0

	for {
		n, err := src.ReadSamples(dst)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 10 {
		t.Errorf("read %d values, want 10", total)
	}
}

func TestSource_ParseError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad crc")
	src := &source{stream: &mockParser{err: boom}, channels: 1, bitDepth: 16}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

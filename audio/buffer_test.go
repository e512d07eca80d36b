// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestCollect_Deinterleaves(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 2, 1000, func(sample, channel int) float32 {
		if channel == 0 {
			return float32(sample) / 1000
		}
		return -float32(sample) / 1000
	})

	buf, err := Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if buf.Channels() != 2 || buf.Frames() != 1000 || buf.SampleRate != 8000 {
		t.Fatalf("Collect() = %d ch, %d frames @ %d Hz, want 2 ch, 1000 frames @ 8000 Hz",
			buf.Channels(), buf.Frames(), buf.SampleRate)
	}

	for _, f := range []int{0, 1, 499, 999} {
		if got, want := buf.Data[0][f], float32(f)/1000; got != want {
			t.Errorf("left[%d] = %v, want %v", f, got, want)
		}
		if got, want := buf.Data[1][f], -float32(f)/1000; got != want {
			t.Errorf("right[%d] = %v, want %v", f, got, want)
		}
	}
}

func TestCollect_LongSource(t *testing.T) {
	t.Parallel()

	// Spans several read chunks.
	src := newConstantSource(44100, 3, 44100, 0.25)

	buf, err := Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if buf.Frames() != 44100 {
		t.Errorf("Frames() = %d, want 44100", buf.Frames())
	}

	if d := buf.Duration(); d != 1.0 {
		t.Errorf("Duration() = %v, want 1.0", d)
	}
}

func TestCollect_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, newSilentSource(8000, 1, 100))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
}

func TestCollect_NoChannels(t *testing.T) {
	t.Parallel()

	_, err := Collect(context.Background(), newSilentSource(8000, 0, 100))
	if !errors.Is(err, ErrNoChannels) {
		t.Errorf("Collect() error = %v, want ErrNoChannels", err)
	}
}

func TestBuffer_Slice(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(10, 2, 10)
	for f := range 10 {
		buf.Data[0][f] = float32(f)
		buf.Data[1][f] = float32(100 + f)
	}

	out, err := buf.Slice(3, 7)
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}

	if out.Frames() != 4 {
		t.Fatalf("Slice() frames = %d, want 4", out.Frames())
	}

	if out.Data[0][0] != 3 || out.Data[1][3] != 106 {
		t.Errorf("Slice() data = %v, want channels kept apart", out.Data)
	}

	// The slice is a copy.
	out.Data[0][0] = -1
	if buf.Data[0][3] != 3 {
		t.Error("Slice() shares memory with the source buffer")
	}
}

func TestBuffer_SliceOutOfRange(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(10, 1, 10)

	for _, r := range [][2]int{{-1, 5}, {5, 11}, {6, 5}} {
		if _, err := buf.Slice(r[0], r[1]); !errors.Is(err, ErrFrameOutOfRange) {
			t.Errorf("Slice(%d, %d) error = %v, want ErrFrameOutOfRange", r[0], r[1], err)
		}
	}
}

func TestBuffer_Validate(t *testing.T) {
	t.Parallel()

	if err := NewBuffer(8000, 1, 10).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	if err := NewBuffer(0, 1, 10).Validate(); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("Validate() error = %v, want ErrInvalidSampleRate", err)
	}

	if err := NewBuffer(8000, 0, 10).Validate(); !errors.Is(err, ErrNoChannels) {
		t.Errorf("Validate() error = %v, want ErrNoChannels", err)
	}

	ragged := &Buffer{SampleRate: 8000, Data: [][]float32{make([]float32, 3), make([]float32, 2)}}
	if err := ragged.Validate(); err == nil {
		t.Error("Validate() accepted channels of different lengths")
	}
}

func TestBufferSource_ReadsInterleaved(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(10, 2, 3)
	buf.Data[0] = []float32{1, 2, 3}
	buf.Data[1] = []float32{-1, -2, -3}

	src := NewBufferSource(buf)
	dst := make([]float32, 8)

	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{1, -1, 2, -2, 3, -3}
	if n != len(want) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(want))
	}

	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if _, err := src.ReadSamples(dst); err != io.EOF {
		t.Errorf("ReadSamples() after end error = %v, want io.EOF", err)
	}
}

func TestBufferSource_LoopsWithinBounds(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(10, 1, 10)
	for f := range 10 {
		buf.Data[0][f] = float32(f)
	}

	src := NewBufferSource(buf)
	if err := src.SetBounds(2, 5, true); err != nil {
		t.Fatalf("SetBounds() error = %v", err)
	}

	dst := make([]float32, 7)
	if _, err := src.ReadSamples(dst); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{2, 3, 4, 2, 3, 4, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if src.Position() != 3 {
		t.Errorf("Position() = %d, want 3", src.Position())
	}
}

func TestBufferSource_InvalidBounds(t *testing.T) {
	t.Parallel()

	src := NewBufferSource(NewBuffer(10, 1, 10))

	if err := src.SetBounds(5, 5, false); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("SetBounds(5, 5) error = %v, want ErrFrameOutOfRange", err)
	}
}

func TestFrameAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds float64
		rate    int
		want    int
	}{
		{0, 8000, 0},
		{1.5, 8000, 12000},
		{0.1, 44100, 4410},
		{0.35, 44100, 15435},
		{0.29, 48000, 13920},
		{1.25, 22050, 27562},
		{0.999999, 1000, 999},
	}

	for _, tt := range tests {
		if got := FrameAt(tt.seconds, tt.rate); got != tt.want {
			t.Errorf("FrameAt(%v, %d) = %d, want %d", tt.seconds, tt.rate, got, tt.want)
		}
	}
}

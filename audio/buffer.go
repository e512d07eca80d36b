// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
)

// collectChunk is the number of interleaved values read per ReadSamples call
// while collecting a source.
const collectChunk = 16384

// Buffer is fully decoded PCM held in memory, one slice per channel. Every
// channel holds the same number of frames. Values nominally lie in [-1, 1] but
// may exceed it; clamping happens at encode time.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}

	return &Buffer{SampleRate: sampleRate, Data: data}
}

func (b *Buffer) Channels() int { return len(b.Data) }

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}

	return len(b.Data[0])
}

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.SampleRate)
}

// frameEpsilon absorbs float error in t*rate, so 0.35s at 44100 Hz is frame
// 15435 and not 15434.
const frameEpsilon = 1e-9

// FrameAt converts seconds to a frame index, floor(t*rate).
func FrameAt(seconds float64, rate int) int {
	return int(math.Floor(seconds*float64(rate) + frameEpsilon))
}

// Validate checks the structural invariants of the buffer.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, b.SampleRate)
	}

	if len(b.Data) == 0 {
		return ErrNoChannels
	}

	frames := len(b.Data[0])
	for ch, d := range b.Data {
		if len(d) != frames {
			return fmt.Errorf("channel %d has %d frames, want %d", ch, len(d), frames)
		}
	}

	if math.IsInf(b.Duration(), 0) || math.IsNaN(b.Duration()) {
		return fmt.Errorf("non-finite duration")
	}

	return nil
}

// Slice copies frames [start, end) of every channel into a new buffer.
// Channels are never mixed.
func (b *Buffer) Slice(start, end int) (*Buffer, error) {
	if start < 0 || end > b.Frames() || start > end {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrFrameOutOfRange, start, end, b.Frames())
	}

	out := NewBuffer(b.SampleRate, b.Channels(), end-start)
	for ch := range b.Data {
		copy(out.Data[ch], b.Data[ch][start:end])
	}

	return out, nil
}

// Interleave writes frames [start, start+n) frame-major into dst, which must
// hold n*Channels() values.
func (b *Buffer) Interleave(dst []float32, start, n int) {
	channels := b.Channels()
	for f := range n {
		base := f * channels
		for ch := range channels {
			dst[base+ch] = b.Data[ch][start+f]
		}
	}
}

// Collect drains src into a Buffer, deinterleaving as it goes. The source is
// not closed. ctx is checked between reads.
func Collect(ctx context.Context, src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, src.SampleRate())
	}

	hint := 0
	if fc, ok := src.(FrameCounter); ok && fc.Frames() > 0 {
		hint = int(fc.Frames())
	}

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, 0, hint)
	}

	chunk := collectChunk - collectChunk%channels
	buf := make([]float32, chunk)
	// Values left over from a read that ended mid-frame.
	pending := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect samples: %w", err)
		}

		n, err := src.ReadSamples(buf[pending : pending+chunk-channels])
		n += pending

		frames := n / channels
		for f := range frames {
			base := f * channels
			for ch := range channels {
				data[ch] = append(data[ch], buf[base+ch])
			}
		}

		pending = copy(buf, buf[frames*channels:n])

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	return &Buffer{SampleRate: src.SampleRate(), Data: data}, nil
}

// BufferSource streams a Buffer as a Source, optionally bounded to a frame
// range and looping within it.
type BufferSource struct {
	mu    sync.Mutex
	buf   *Buffer
	pos   int
	start int
	end   int
	loop  bool
}

func NewBufferSource(buf *Buffer) *BufferSource {
	return &BufferSource{buf: buf, end: buf.Frames()}
}

func (s *BufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *BufferSource) Channels() int   { return s.buf.Channels() }
func (s *BufferSource) Close() error    { return nil }

func (s *BufferSource) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(s.end - s.start)
}

// SetBounds restricts playback to frames [start, end) and moves the read
// position to start. When loop is set, reaching end wraps back to start.
func (s *BufferSource) SetBounds(start, end int, loop bool) error {
	if start < 0 || end > s.buf.Frames() || start >= end {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrFrameOutOfRange, start, end, s.buf.Frames())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.start, s.end, s.loop = start, end, loop
	s.pos = start

	return nil
}

// Position returns the next frame to be read.
func (s *BufferSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pos
}

func (s *BufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.buf.Channels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want := len(dst) / channels
	written := 0

	for written < want {
		if s.pos >= s.end {
			if !s.loop {
				break
			}
			s.pos = s.start
		}

		n := min(want-written, s.end-s.pos)
		s.buf.Interleave(dst[written*channels:], s.pos, n)
		s.pos += n
		written += n
	}

	if written == 0 {
		return 0, io.EOF
	}

	return written * channels, nil
}

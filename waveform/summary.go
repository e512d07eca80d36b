// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"math"

	"github.com/ik5/audtrim/audio"
)

// Mode picks the level a bucket reports.
type Mode int

const (
	Peak Mode = iota
	RMS
)

// Bucket summarizes the frames that fall in one column.
type Bucket struct {
	Min  float32
	Max  float32
	Peak float32
	RMS  float32
}

// Summary is a display-only reduction of a buffer to a fixed width.
type Summary struct {
	Width    int
	Mode     Mode
	Duration float64
	Channels [][]Bucket
}

// Summarize splits each channel into width buckets of (nearly) equal frame
// counts. When the buffer has fewer frames than width, trailing buckets are
// silent.
func Summarize(buf *audio.Buffer, width int, mode Mode) (*Summary, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}

	if buf == nil || buf.Channels() == 0 {
		return nil, ErrEmptyBuffer
	}

	frames := buf.Frames()
	s := &Summary{
		Width:    width,
		Mode:     mode,
		Duration: buf.Duration(),
		Channels: make([][]Bucket, buf.Channels()),
	}

	for ch, data := range buf.Data {
		buckets := make([]Bucket, width)

		for i := range width {
			lo := i * frames / width
			hi := (i + 1) * frames / width
			if hi <= lo {
				continue
			}

			buckets[i] = reduce(data[lo:hi])
		}

		s.Channels[ch] = buckets
	}

	return s, nil
}

func reduce(samples []float32) Bucket {
	b := Bucket{Min: samples[0], Max: samples[0]}

	var sum float64
	for _, v := range samples {
		b.Min = min(b.Min, v)
		b.Max = max(b.Max, v)
		sum += float64(v) * float64(v)
	}

	b.Peak = max(b.Max, -b.Min)
	b.RMS = float32(math.Sqrt(sum / float64(len(samples))))

	return b
}

// Level returns the Mode level of column i for channel ch.
func (s *Summary) Level(ch, i int) float32 {
	b := s.Channels[ch][i]
	if s.Mode == RMS {
		return b.RMS
	}

	return b.Peak
}

// Mixed returns, per column, the loudest level across channels.
func (s *Summary) Mixed() []float32 {
	out := make([]float32, s.Width)
	for ch := range s.Channels {
		for i := range out {
			out[i] = max(out[i], s.Level(ch, i))
		}
	}

	return out
}

// Column maps a time in seconds to a column index in [0, Width).
func (s *Summary) Column(t float64) int {
	if s.Duration <= 0 {
		return 0
	}

	i := int(t / s.Duration * float64(s.Width))

	return min(max(i, 0), s.Width-1)
}

// Time maps a column index back to the time at its left edge.
func (s *Summary) Time(col int) float64 {
	return float64(col) / float64(s.Width) * s.Duration
}

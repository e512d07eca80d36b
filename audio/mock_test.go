// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// genSource synthesizes frames on demand from fn. The final read returns its
// samples together with io.EOF, the way the format decoders do.
type genSource struct {
	rate, channels int
	frames, pos    int
	fn             func(frame, channel int) float32
}

func newMockSource(rate, channels, frames int, fn func(frame, channel int) float32) *genSource {
	return &genSource{rate: rate, channels: channels, frames: frames, fn: fn}
}

func newSilentSource(rate, channels, frames int) *genSource {
	return newConstantSource(rate, channels, frames, 0)
}

func newSineSource(rate, channels, frames int, freq float64) *genSource {
	step := 2 * math.Pi * freq / float64(rate)

	return newMockSource(rate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(step * float64(f)))
	})
}

func newConstantSource(rate, channels, frames int, v float32) *genSource {
	return newMockSource(rate, channels, frames, func(int, int) float32 { return v })
}

func (g *genSource) SampleRate() int { return g.rate }
func (g *genSource) Channels() int   { return g.channels }
func (g *genSource) Frames() int64   { return int64(g.frames) }
func (g *genSource) Close() error    { return nil }

func (g *genSource) ReadSamples(dst []float32) (int, error) {
	if g.pos >= g.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/g.channels, g.frames-g.pos)
	for i := range n * g.channels {
		dst[i] = g.fn(g.pos+i/g.channels, i%g.channels)
	}
	g.pos += n

	if g.pos == g.frames {
		return n * g.channels, io.EOF
	}

	return n * g.channels, nil
}

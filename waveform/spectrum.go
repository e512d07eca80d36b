// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	DefaultFFTSize = 2048
	DefaultBars    = 32
	// floorDB maps to bar height 0.
	floorDB = -90.0
)

// Analyzer turns a block of samples into bar magnitudes for the live
// spectrum. It is not safe for concurrent use.
type Analyzer struct {
	size   int
	bars   int
	window []float64
	in     []float64
	edges  []int
}

// NewAnalyzer returns an analyzer over size samples producing bars bars.
// Non-positive arguments select the defaults.
func NewAnalyzer(size, bars int) *Analyzer {
	if size <= 0 {
		size = DefaultFFTSize
	}

	if bars <= 0 {
		bars = DefaultBars
	}

	return &Analyzer{
		size:   size,
		bars:   bars,
		window: window.Hann(size),
		in:     make([]float64, size),
		edges:  bandEdges(size/2, bars),
	}
}

// Size is the number of mono samples one analysis consumes.
func (a *Analyzer) Size() int { return a.size }

func (a *Analyzer) Bars() int { return a.bars }

// bandEdges splits bins [1, half) into n logarithmically spaced bands.
func bandEdges(half, n int) []int {
	edges := make([]int, n+1)
	lo, hi := math.Log(1), math.Log(float64(half))

	for i := range edges {
		edges[i] = int(math.Exp(lo + (hi-lo)*float64(i)/float64(n)))
	}

	for i := 1; i < len(edges); i++ {
		edges[i] = max(edges[i], edges[i-1]+1)
	}

	return edges
}

// Analyze mixes interleaved samples to mono, applies a Hann window and
// returns one value per bar in [0, 1]. Short input is zero padded.
func (a *Analyzer) Analyze(samples []float32, channels int) []float64 {
	channels = max(channels, 1)
	frames := len(samples) / channels
	// Most recent frames.
	offset := max(frames-a.size, 0)

	for i := range a.in {
		a.in[i] = 0
	}

	for i := 0; i < a.size && offset+i < frames; i++ {
		var sum float64
		base := (offset + i) * channels
		for ch := range channels {
			sum += float64(samples[base+ch])
		}
		a.in[i] = sum / float64(channels) * a.window[i]
	}

	spectrum := fft.FFTReal(a.in)
	half := a.size / 2
	norm := float64(a.size) / 4 // Hann coherent gain is 0.5

	bars := make([]float64, a.bars)
	for b := range bars {
		var peak float64
		for k := a.edges[b]; k < a.edges[b+1] && k < half; k++ {
			peak = math.Max(peak, cmplx.Abs(spectrum[k]))
		}

		db := 20 * math.Log10(peak/norm+1e-12)
		bars[b] = math.Min(math.Max((db-floorDB)/-floorDB, 0), 1)
	}

	return bars
}

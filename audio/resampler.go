// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audtrim/utils"
)

// resampleChunk is the number of source frames pulled per ReadSamples call
// on the wrapped source.
const resampleChunk = 1024

// Resampler streams src at a different sample rate using cubic interpolation
// over a four frame window. Channel count is preserved. When downsampling a
// one-pole low-pass runs on the input to tame aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window holds frames t-1, t0, t+1, t+2. valid marks which of them came
	// from the source rather than edge padding.
	window [4][]float32
	valid  [4]bool
	primed bool
	pos    float64

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowpass []float32
	alpha   float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, resampleChunk*max(channels, 1)),
		lowpass:  make([]float32, channels),
	}

	if r.ratio > 1 {
		r.alpha = 0.5
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

// Frames estimates the output frame count from the source's frame count.
func (r *Resampler) Frames() int64 {
	fc, ok := r.src.(FrameCounter)
	if !ok || fc.Frames() < 0 {
		return -1
	}

	return int64(float64(fc.Frames()) / r.ratio)
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// pull copies the next source frame into dst. It reports false once the
// source is drained.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.alpha > 0 {
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lowpass[c]
			r.lowpass[c] = dst[c]
		}
	}

	return true, nil
}

// prime fills the window with the first frames, padding the leading edge
// with a copy of frame 0.
func (r *Resampler) prime() error {
	ok, err := r.pull(r.window[1])
	if err != nil {
		return err
	}

	if !ok {
		return io.EOF
	}

	if r.alpha > 0 {
		// Start the filter from the first value instead of zero.
		copy(r.lowpass, r.window[1])
	}

	copy(r.window[0], r.window[1])
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}

	r.primed = true

	return nil
}

// fill loads window slot i from the source, or repeats slot i-1 when the
// source is drained.
func (r *Resampler) fill(i int) error {
	ok, err := r.pull(r.window[i])
	if err != nil {
		return err
	}

	if !ok {
		copy(r.window[i], r.window[i-1])
	}

	r.valid[i] = ok

	return nil
}

func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.valid[:], r.valid[1:])

	return r.fill(3)
}

// ReadSamples produces interleaved samples at the target rate. len(dst) must
// be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] {
			break
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels:]
		for c := range r.channels {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], alpha)
		}

		written++
		r.pos += r.ratio
	}

	if written == 0 {
		return 0, io.EOF
	}

	return written * r.channels, nil
}

// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/ik5/audtrim/audio"
)

// pcmReader turns a Source into float32 little-endian bytes, recording what
// it hands out in a tap.
type pcmReader struct {
	src      audio.Source
	channels int
	tap      *ring

	samples []float32
	bytes   []byte
	pending []byte
	err     error
}

func newPCMReader(src audio.Source, tap *ring) *pcmReader {
	return &pcmReader{src: src, channels: src.Channels(), tap: tap}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		frames := max(len(p)/(4*r.channels), 1)
		need := frames * r.channels
		if cap(r.samples) < need {
			r.samples = make([]float32, need)
			r.bytes = make([]byte, need*4)
		}

		n, err := r.src.ReadSamples(r.samples[:need])
		if err != nil {
			r.err = err
		}

		if n == 0 {
			if r.err == nil {
				r.err = io.EOF
			}
			return 0, r.err
		}

		out := r.bytes[:n*4]
		for i, v := range r.samples[:n] {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
		}

		r.tap.write(r.samples[:n])
		r.pending = out
	}

	c := copy(p, r.pending)
	r.pending = r.pending[c:]

	return c, nil
}

// ring keeps the most recent interleaved samples handed to the device.
type ring struct {
	mu       sync.Mutex
	channels int
	data     []float32
	next     int
	filled   int
}

func newRing(frames, channels int) *ring {
	return &ring{channels: channels, data: make([]float32, frames*channels)}
}

func (r *ring) write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.data)
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}

	for _, v := range samples {
		r.data[r.next] = v
		r.next = (r.next + 1) % size
	}

	r.filled = min(r.filled+len(samples), size)
}

// read copies the latest whole frames that fit in dst, oldest first.
func (r *ring) read(dst []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(len(dst), r.filled)
	n -= n % r.channels
	size := len(r.data)
	start := (r.next - n + size) % size

	for i := range n {
		dst[i] = r.data[(start+i)%size]
	}

	return n
}

func (r *ring) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next, r.filled = 0, 0
}

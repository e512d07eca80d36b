// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Stereo presents src as two channels. Mono is duplicated, stereo passes
// through and anything wider is mixed to mono first.
type Stereo struct {
	src Source
	tmp []float32
}

func NewStereo(src Source) *Stereo {
	if src.Channels() > 2 {
		src = NewMonoMixer(src)
	}

	return &Stereo{src: src}
}

func (s *Stereo) SampleRate() int { return s.src.SampleRate() }
func (s *Stereo) Channels() int   { return 2 }

func (s *Stereo) Frames() int64 {
	if fc, ok := s.src.(FrameCounter); ok {
		return fc.Frames()
	}

	return -1
}

func (s *Stereo) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *Stereo) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}

	if s.src.Channels() == 2 {
		return s.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}
	s.tmp = s.tmp[:frames]

	n, err := s.src.ReadSamples(s.tmp)
	for i := range n {
		dst[2*i] = s.tmp[i]
		dst[2*i+1] = s.tmp[i]
	}

	return n * 2, err
}

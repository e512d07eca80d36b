// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrim/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

var ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

// frameParser is the part of flac.Stream the source needs.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	stream     frameParser
	closer     io.Closer
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64

	// pending holds the undelivered tail of the last parsed frame.
	pending []*frame.Subframe
	pos     int
	size    int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Frames() int64   { return s.frames }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}

	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}

	scale := float32(int64(1) << (s.bitDepth - 1))
	written := 0

	for written < want {
		if s.pos >= s.size {
			f, err := s.stream.ParseNext()
			if err == io.EOF {
				if written == 0 {
					return 0, io.EOF
				}
				break
			}

			if err != nil {
				return written * s.channels, fmt.Errorf("parse flac frame: %w", err)
			}

			s.pending, s.pos, s.size = f.Subframes, 0, int(f.BlockSize)
			continue
		}

		n := min(want-written, s.size-s.pos)
		for i := range n {
			base := (written + i) * s.channels
			for ch := range s.channels {
				dst[base+ch] = float32(s.pending[ch].Samples[s.pos+i]) / scale
			}
		}

		s.pos += n
		written += n
	}

	return written * s.channels, nil
}

// Decoder reads native FLAC streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	frames := int64(-1)
	if info.NSamples > 0 {
		frames = int64(info.NSamples)
	}

	return &source{
		stream:     stream,
		closer:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
		frames:     frames,
	}, nil
}

// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrim/audio"
	"gopkg.in/hraban/opus.v2"
)

// SampleRate is the rate libopusfile always decodes to.
const SampleRate = 48000

var ErrNotOpusStream = errors.New("not an Ogg Opus stream")

// floatReader is the part of opus.Stream the source needs. ReadFloat32
// returns samples per channel.
type floatReader interface {
	ReadFloat32(pcm []float32) (int, error)
	Close() error
}

type source struct {
	stream   floatReader
	channels int
}

func (s *source) SampleRate() int { return SampleRate }
func (s *source) Channels() int   { return s.channels }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) < s.channels {
		return 0, nil
	}

	n, err := s.stream.ReadFloat32(dst[:len(dst)-len(dst)%s.channels])
	if err == io.EOF {
		return n * s.channels, io.EOF
	}

	if err != nil {
		return n * s.channels, fmt.Errorf("read opus: %w", err)
	}

	return n * s.channels, nil
}

// Decoder reads Ogg Opus files through libopusfile.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading opus data: %w", err)
	}

	channels := audio.OpusChannels(data)
	if channels <= 0 {
		return nil, ErrNotOpusStream
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{stream: stream, channels: channels}, nil
}

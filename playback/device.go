// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Stream is one playing reader on a device.
type Stream interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Device plays interleaved float32 little-endian PCM at a fixed format.
type Device interface {
	SampleRate() int
	Channels() int
	NewStream(r io.Reader) Stream
}

// OtoDevice is the system audio output. oto allows one context per process,
// so every OtoDevice shares it.
type OtoDevice struct {
	ctx        *oto.Context
	sampleRate int
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

// NewOtoDevice opens the audio device in stereo float32. The first call
// fixes the rate; later calls with a different rate get the existing
// context and a warning.
func NewOtoDevice(sampleRate int, logger *slog.Logger) (*OtoDevice, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("create oto context: %w", err)
			return
		}

		<-ready

		otoCtx = ctx
		otoRate = sampleRate
		logger.Info("audio output initialized", "sample_rate", sampleRate, "channels", 2)
	})

	if otoErr != nil {
		return nil, otoErr
	}

	if otoRate != sampleRate {
		logger.Warn("audio output already open at another rate", "requested", sampleRate, "rate", otoRate)
	}

	return &OtoDevice{ctx: otoCtx, sampleRate: otoRate}, nil
}

func (d *OtoDevice) SampleRate() int { return d.sampleRate }
func (d *OtoDevice) Channels() int   { return 2 }

func (d *OtoDevice) NewStream(r io.Reader) Stream {
	return d.ctx.NewPlayer(r)
}

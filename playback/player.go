// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/region"
)

// TapFrames is how many output frames Recent can return.
const TapFrames = 8192

var ErrClosed = errors.New("player is closed")

// Mode is what the player is currently previewing.
type Mode int

const (
	Stopped Mode = iota
	Full
	Looping
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Looping:
		return "region"
	default:
		return "stopped"
	}
}

// Player previews a decoded buffer on a Device. Each Play call builds a new
// pipeline: buffer, channel adapter, resampler to the device rate, PCM
// bytes.
type Player struct {
	device Device
	buf    *audio.Buffer
	logger *slog.Logger
	tap    *ring

	mu     sync.Mutex
	src    *audio.BufferSource
	stream Stream
	mode   Mode
	closed bool
}

type Option func(*Player)

func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

func New(device Device, buf *audio.Buffer, opts ...Option) *Player {
	p := &Player{
		device: device,
		buf:    buf,
		logger: slog.New(slog.DiscardHandler),
		tap:    newRing(TapFrames, device.Channels()),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PlayFull plays the whole buffer once from the start.
func (p *Player) PlayFull() error {
	return p.play(0, p.buf.Frames(), Full)
}

// PlayRegion plays r, wrapping from its end back to its start until paused.
func (p *Player) PlayRegion(r region.Region) error {
	start := audio.FrameAt(r.Start, p.buf.SampleRate)
	end := min(audio.FrameAt(r.End, p.buf.SampleRate), p.buf.Frames())

	if start < 0 || end <= start {
		return fmt.Errorf("play region %s: %w", r, region.ErrEmptyRegion)
	}

	return p.play(start, end, Looping)
}

func (p *Player) play(start, end int, mode Mode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	src := audio.NewBufferSource(p.buf)
	if err := src.SetBounds(start, end, mode == Looping); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	p.stopLocked()

	var pipeline audio.Source = src
	switch p.device.Channels() {
	case 1:
		pipeline = audio.NewMonoMixer(pipeline)
	case 2:
		pipeline = audio.NewStereo(pipeline)
	}

	if pipeline.SampleRate() != p.device.SampleRate() {
		pipeline = audio.NewResampler(pipeline, p.device.SampleRate())
	}

	p.tap.reset()
	p.src = src
	p.stream = p.device.NewStream(newPCMReader(pipeline, p.tap))
	p.mode = mode
	p.stream.Play()

	p.logger.Debug("playback started", "mode", mode, "start_frame", start, "end_frame", end)

	return nil
}

func (p *Player) stopLocked() {
	if p.stream == nil {
		return
	}

	if err := p.stream.Close(); err != nil {
		p.logger.Warn("close playback stream", "error", err)
	}

	p.stream = nil
	p.mode = Stopped
}

// Pause stops output and drops the current preview.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		p.stream.Pause()
	}

	p.stopLocked()
}

// Playing reports whether audio is being produced. A full preview stops by
// itself at the end of the buffer.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stream != nil && p.stream.IsPlaying()
}

func (p *Player) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil || !p.stream.IsPlaying() {
		return Stopped
	}

	return p.mode
}

// Position is the read position in seconds within the buffer. It runs
// slightly ahead of what is audible by the device's buffering.
func (p *Player) Position() float64 {
	p.mu.Lock()
	src := p.src
	p.mu.Unlock()

	if src == nil || p.buf.SampleRate <= 0 {
		return 0
	}

	return float64(src.Position()) / float64(p.buf.SampleRate)
}

// Recent copies the latest samples sent to the device.
func (p *Player) Recent(dst []float32) int { return p.tap.read(dst) }

// Channels of the samples Recent returns.
func (p *Player) Channels() int { return p.device.Channels() }

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.closed = true

	return nil
}

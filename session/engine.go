// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/decode"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/frame"
	"github.com/ik5/audtrim/gate"
	"github.com/ik5/audtrim/playback"
	"github.com/ik5/audtrim/storage"
	"github.com/ik5/audtrim/waveform"
)

// Options are per session.
type Options struct {
	// MaxDuration caps the region length in seconds. Zero means no cap.
	MaxDuration float64 `validate:"gte=0"`
	Mode        waveform.Mode
	Encoding    wav.Encoding `validate:"oneof=0 1"`
	// Observer short-circuits the layout wait. When nil and the surface is
	// also a frame.Observer, the surface is used.
	Observer frame.Observer
}

// Engine opens edit sessions. Only one session is active at a time: opening
// a new one closes the previous.
type Engine struct {
	store        *storage.Store
	decoder      *decode.Decoder
	scheduler    frame.Scheduler
	device       playback.Device
	releaseDelay time.Duration
	gateAttempts int
	spectrumSize int
	spectrumBars int
	logger       *slog.Logger
	validate     *validator.Validate

	mu       sync.Mutex
	sessions map[string]*Session
}

type EngineOption func(*Engine)

func WithDecoder(d *decode.Decoder) EngineOption {
	return func(e *Engine) { e.decoder = d }
}

// WithScheduler sets the frame clock for layout polling and the spectrum.
func WithScheduler(s frame.Scheduler) EngineOption {
	return func(e *Engine) { e.scheduler = s }
}

// WithDevice enables playback previews.
func WithDevice(d playback.Device) EngineOption {
	return func(e *Engine) { e.device = d }
}

func WithReleaseDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.releaseDelay = d }
}

func WithGateAttempts(n int) EngineOption {
	return func(e *Engine) { e.gateAttempts = n }
}

func WithSpectrum(size, bars int) EngineOption {
	return func(e *Engine) { e.spectrumSize, e.spectrumBars = size, bars }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(store *storage.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:        store,
		releaseDelay: DefaultReleaseDelay,
		gateAttempts: gate.MaxAttempts,
		logger:       slog.New(slog.DiscardHandler),
		validate:     validator.New(),
		sessions:     make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.decoder == nil {
		e.decoder = decode.New(decode.WithLogger(e.logger))
	}

	if e.scheduler == nil {
		e.scheduler = frame.NewTimer(frame.DefaultFPS)
	}

	return e
}

// Open starts a session on asset. The session waits for surface to have a
// size, then decodes in the background; use WaitReady to block on it.
func (e *Engine) Open(ctx context.Context, asset *audio.Asset, surface frame.Surface, opts Options) (*Session, error) {
	if asset == nil {
		return nil, ErrNoAsset
	}

	if err := e.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if opts.Observer == nil {
		if obs, ok := surface.(frame.Observer); ok {
			opts.Observer = obs
		}
	}

	if err := e.closeOthers(); err != nil {
		e.logger.Warn("close previous session", "error", err)
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		engine:  e,
		surface: surface,
		opts:    opts,
		logger:  e.logger.With("session", id),
		ready:   make(chan struct{}),
	}
	s.handles = NewHandles(e.store, e.releaseDelay, s.logger)

	if err := s.begin(ctx, asset); err != nil {
		_ = s.Close()
		return nil, err
	}

	e.mu.Lock()
	e.sessions[id] = s
	e.mu.Unlock()

	s.logger.Info("session opened", "asset", asset.Name, "bytes", asset.Size)

	return s, nil
}

func (e *Engine) Get(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]

	return s, ok
}

// Close closes the session with the given id.
func (e *Engine) Close(id string) error {
	s, ok := e.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.Close()
}

func (e *Engine) closeOthers() error {
	e.mu.Lock()
	open := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		open = append(open, s)
	}
	e.mu.Unlock()

	var firstErr error
	for _, s := range open {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// CloseAll closes every session and waits for their deferred releases.
func (e *Engine) CloseAll() error {
	e.mu.Lock()
	open := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		open = append(open, s)
	}
	e.mu.Unlock()

	err := e.closeOthers()

	for _, s := range open {
		s.Wait()
	}

	return err
}

func (e *Engine) forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.sessions, id)
}

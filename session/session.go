// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/frame"
	"github.com/ik5/audtrim/gate"
	"github.com/ik5/audtrim/playback"
	"github.com/ik5/audtrim/region"
	"github.com/ik5/audtrim/trim"
	"github.com/ik5/audtrim/waveform"
)

// State of a session.
type State int

const (
	WaitingForLayout State = iota
	Loading
	Ready
	Failed
	Closed
)

func (s State) String() string {
	switch s {
	case WaitingForLayout:
		return "waiting-for-layout"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one edit of one asset. All methods are safe for concurrent
// use.
type Session struct {
	id      string
	engine  *Engine
	surface frame.Surface
	opts    Options
	logger  *slog.Logger
	handles *Handles

	mu sync.Mutex
	// gen increases on Replace and Close. Callbacks from an older
	// generation are dropped.
	gen     uint64
	state   State
	err     error
	ready   chan struct{}
	asset   *audio.Asset
	stream  *audio.Asset
	gate    *gate.Gate
	cancel  context.CancelFunc
	buf     *audio.Buffer
	summary *waveform.Summary
	editor  *region.Editor
	player  *playback.Player
	live    *waveform.Live
	// renderErr is set when the summary could not be built. The session is
	// still Ready, without a waveform.
	renderErr error

	// Functions that drop the closers above from handles once they are
	// closed here.
	untrackGate   func()
	untrackPlayer func()
	untrackLive   func()
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Err is the *LoadError of a failed session, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// begin copies asset into a fresh stream and starts waiting for layout
// under a new generation.
func (s *Session) begin(ctx context.Context, asset *audio.Asset) error {
	rc, err := asset.Open()
	if err != nil {
		return fmt.Errorf("open asset: %w", err)
	}
	defer rc.Close()

	st, err := s.handles.Acquire(ctx, asset.Name, rc)
	if err != nil {
		return fmt.Errorf("acquire stream: %w", err)
	}

	observer := s.opts.Observer

	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return ErrClosed
	}

	live := s.resetLocked()

	s.gen++
	gen := s.gen
	s.asset = asset
	s.stream = s.engine.store.Asset(st)
	s.state = WaitingForLayout
	s.err = nil

	opts := []gate.Option{
		gate.WithMaxAttempts(s.engine.gateAttempts),
		gate.WithLogger(s.logger),
	}
	if observer != nil {
		opts = append(opts, gate.WithObserver(observer))
	}

	g := gate.New(s.surface, s.engine.scheduler, opts...)
	s.gate = g
	s.untrackGate = s.handles.Track(g)
	s.mu.Unlock()

	if live != nil {
		_ = live.Close()
	}

	g.Start(
		func(size frame.Size) { s.layoutReady(gen, size) },
		func(err error) { s.fail(gen, err) },
	)

	return nil
}

// resetLocked drops everything tied to the current generation. The live
// loop is returned so it can be stopped without the session lock held.
func (s *Session) resetLocked() *waveform.Live {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.gate != nil {
		s.gate.Destroy()
		s.gate = nil
	}
	untrack(&s.untrackGate)

	s.closePlayerLocked()
	live := s.takeLiveLocked()
	s.buf, s.summary, s.editor, s.renderErr = nil, nil, nil, nil

	// Wake waiters of the previous generation.
	s.signalLocked()
	s.ready = make(chan struct{})

	return live
}

func (s *Session) closePlayerLocked() {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
	untrack(&s.untrackPlayer)
}

// takeLiveLocked detaches the live loop; the caller closes it.
func (s *Session) takeLiveLocked() *waveform.Live {
	live := s.live
	s.live = nil
	untrack(&s.untrackLive)

	return live
}

func untrack(fn *func()) {
	if *fn != nil {
		(*fn)()
		*fn = nil
	}
}

func (s *Session) signalLocked() {
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
}

func (s *Session) layoutReady(gen uint64, size frame.Size) {
	s.mu.Lock()

	if gen != s.gen || s.state != WaitingForLayout {
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = Loading
	asset := s.stream
	done := s.handles.BeginLoad()
	s.mu.Unlock()

	s.logger.Debug("layout ready, decoding", "width", size.Width, "height", size.Height)

	go s.decode(ctx, gen, asset, size, done)
}

func (s *Session) decode(ctx context.Context, gen uint64, asset *audio.Asset, size frame.Size, done func()) {
	buf, err := s.engine.decoder.Decode(ctx, asset)
	done()

	var (
		summary   *waveform.Summary
		renderErr error
	)
	if err == nil {
		if summary, err = waveform.Summarize(buf, size.Width, s.opts.Mode); err != nil {
			renderErr = &waveform.RenderError{Err: err}
			err = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("dropping stale decode", "generation", gen, "current", s.gen)
		return
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err != nil {
		s.failLocked(err)
		return
	}

	editor := region.NewEditor(buf.Duration(), s.opts.MaxDuration)
	def := region.DefaultRegion(buf.Duration(), s.opts.MaxDuration)
	if _, err := editor.Create(def.Start, def.End); err != nil {
		s.failLocked(err)
		return
	}

	if renderErr != nil {
		s.logger.Warn("waveform unavailable", "error", renderErr)
	}

	s.buf = buf
	s.summary = summary
	s.renderErr = renderErr
	s.editor = editor
	s.state = Ready
	s.signalLocked()

	s.logger.Info("session ready",
		"duration", buf.Duration(),
		"sample_rate", buf.SampleRate,
		"channels", buf.Channels(),
		"region", def.String(),
	)
}

func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}

	s.failLocked(err)
}

func (s *Session) failLocked(err error) {
	if s.state == Closed {
		return
	}

	s.err = &LoadError{Err: err}
	s.state = Failed
	s.signalLocked()

	s.logger.Warn("session failed", "error", err)
}

// WaitReady blocks until the session is Ready. It returns the *LoadError of
// a failed session and ErrClosed for a closed one.
func (s *Session) WaitReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		state, err, ch := s.state, s.err, s.ready
		s.mu.Unlock()

		switch state {
		case Ready:
			return nil
		case Failed:
			return err
		case Closed:
			return ErrClosed
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return fmt.Errorf("wait ready: %w", ctx.Err())
		}
	}
}

func (s *Session) readyLocked() error {
	switch s.state {
	case Ready:
		return nil
	case Failed:
		return s.err
	case Closed:
		return ErrClosed
	default:
		return ErrNotReady
	}
}

// Region is the current selection.
func (s *Session) Region() (region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return region.Region{}, err
	}

	r, ok := s.editor.Region()
	if !ok {
		return region.Region{}, region.ErrNoRegion
	}

	return r, nil
}

// SetRegion updates the selection with the editor's clamping. A looping
// preview follows the new region.
func (s *Session) SetRegion(start, end float64) (region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return region.Region{}, err
	}

	r, err := s.editor.Update(start, end)
	if err != nil {
		return r, err
	}

	if s.player != nil && s.player.Mode() == playback.Looping {
		if err := s.player.PlayRegion(r); err != nil {
			s.logger.Warn("restart region preview", "error", err)
		}
	}

	return r, nil
}

// Editor gives direct access to gestures. It is nil until Ready.
func (s *Session) Editor() *region.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editor
}

// Summary is the waveform at the surface width. It is nil until Ready, and
// stays nil when RenderErr is set.
func (s *Session) Summary() *waveform.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary
}

// RenderErr is the *waveform.RenderError that left a Ready session without
// a waveform, if any.
func (s *Session) RenderErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.renderErr
}

// ReleaseBuffer drops the decoded samples and any preview. A later Confirm
// decodes the asset again.
func (s *Session) ReleaseBuffer() {
	s.mu.Lock()
	live := s.takeLiveLocked()
	s.closePlayerLocked()
	s.buf = nil
	s.mu.Unlock()

	if live != nil {
		_ = live.Close()
	}
}

// Confirm exports the current region.
func (s *Session) Confirm(ctx context.Context) (*trim.Result, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	r, ok := s.editor.Region()
	buf, asset := s.buf, s.asset
	s.mu.Unlock()

	if !ok {
		return nil, region.ErrNoRegion
	}

	if buf == nil {
		s.logger.Debug("buffer released, decoding again")

		var err error
		buf, err = s.engine.decoder.Decode(ctx, asset)
		if err != nil {
			return nil, err
		}
	}

	res, err := trim.Export(buf, r, trim.Options{
		Encoding:   s.opts.Encoding,
		SourceName: asset.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	s.logger.Info("region exported", "region", res.Region.String(), "frames", res.Frames, "bytes", len(res.Bytes))

	return res, nil
}

// Replace swaps in a new asset. In-flight work for the old one is dropped.
func (s *Session) Replace(ctx context.Context, asset *audio.Asset) error {
	if asset == nil {
		return ErrNoAsset
	}

	return s.begin(ctx, asset)
}

func (s *Session) playerLocked() (*playback.Player, error) {
	if err := s.readyLocked(); err != nil {
		return nil, err
	}

	if s.engine.device == nil {
		return nil, ErrNoPlayback
	}

	if s.buf == nil {
		return nil, fmt.Errorf("%w: buffer released", ErrNotReady)
	}

	if s.player == nil {
		s.player = playback.New(s.engine.device, s.buf, playback.WithLogger(s.logger))
		s.untrackPlayer = s.handles.Track(s.player)
	}

	return s.player, nil
}

// PlayFull previews the whole asset once.
func (s *Session) PlayFull() error {
	return s.play(func(p *playback.Player) error { return p.PlayFull() })
}

// PlayRegion previews the selection, looping.
func (s *Session) PlayRegion() error {
	return s.play(func(p *playback.Player) error {
		r, ok := s.editor.Region()
		if !ok {
			return region.ErrNoRegion
		}
		return p.PlayRegion(r)
	})
}

func (s *Session) play(start func(*playback.Player) error) error {
	s.mu.Lock()
	p, err := s.playerLocked()
	if err == nil {
		err = start(p)
	}
	live := s.live
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if live != nil {
		live.Start()
	}

	return nil
}

// Pause stops the preview and the spectrum.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.player != nil {
		s.player.Pause()
	}
	live := s.live
	s.mu.Unlock()

	if live != nil {
		live.Stop()
	}
}

// Playing reports whether a preview is producing audio.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player != nil && s.player.Playing()
}

// StartSpectrum draws the live spectrum of the preview with draw, once per
// frame while playing. It replaces an earlier draw function.
func (s *Session) StartSpectrum(draw waveform.DrawFunc) error {
	s.mu.Lock()
	p, err := s.playerLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	old := s.takeLiveLocked()
	live := waveform.NewLive(
		s.engine.scheduler,
		p,
		waveform.NewAnalyzer(s.engine.spectrumSize, s.engine.spectrumBars),
		draw,
		waveform.WithActive(p.Playing),
		waveform.WithLogger(s.logger),
	)
	s.live = live
	s.untrackLive = s.handles.Track(live)
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	live.Start()

	return nil
}

// Close ends the session. Pending layout waits and decodes are abandoned;
// the stream is released once any in-flight decode has let go of it.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return nil
	}

	live := s.resetLocked()
	s.gen++
	s.state = Closed
	s.signalLocked()
	s.mu.Unlock()

	if live != nil {
		_ = live.Close()
	}

	err := s.handles.Close()
	s.engine.forget(s.id)

	s.logger.Info("session closed")

	return err
}

// Wait blocks until the session's deferred releases are done.
func (s *Session) Wait() {
	s.handles.Wait()
}

var _ io.Closer = (*Session)(nil)

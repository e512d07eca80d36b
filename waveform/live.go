// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ik5/audtrim/frame"
)

// Tap exposes the most recently played samples.
type Tap interface {
	// Recent copies up to len(dst) of the latest interleaved samples into
	// dst and returns how many were written.
	Recent(dst []float32) int
	Channels() int
}

// DrawFunc renders one frame of spectrum bars. It runs on the scheduler's
// goroutine and must not call back into the Live that invoked it.
type DrawFunc func(bars []float64) error

// Live redraws the spectrum once per frame while started. It is not a
// background timer: each frame requests the next, and Stop cancels the one
// pending request.
type Live struct {
	scheduler frame.Scheduler
	tap       Tap
	analyzer  *Analyzer
	draw      DrawFunc
	active    func() bool
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	token   uint64
	cancel  func()
	frames  int
	lastErr error
	buf     []float32
}

type LiveOption func(*Live)

func WithLogger(l *slog.Logger) LiveOption {
	return func(lv *Live) { lv.logger = l }
}

// WithActive stops the loop on the first frame where fn reports false, e.g.
// when playback reached its end.
func WithActive(fn func() bool) LiveOption {
	return func(lv *Live) { lv.active = fn }
}

func NewLive(scheduler frame.Scheduler, tap Tap, analyzer *Analyzer, draw DrawFunc, opts ...LiveOption) *Live {
	if analyzer == nil {
		analyzer = NewAnalyzer(0, 0)
	}

	lv := &Live{
		scheduler: scheduler,
		tap:       tap,
		analyzer:  analyzer,
		draw:      draw,
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(lv)
	}

	return lv
}

// Start begins drawing on the next frame. Starting a running loop does
// nothing.
func (lv *Live) Start() {
	lv.mu.Lock()
	defer lv.mu.Unlock()

	if lv.running {
		return
	}

	lv.running = true
	lv.lastErr = nil
	lv.requestLocked()
}

func (lv *Live) requestLocked() {
	lv.token++
	token := lv.token
	lv.cancel = lv.scheduler.Request(func() { lv.tick(token) })
}

// Stop cancels the pending frame. No draw happens after Stop returns.
func (lv *Live) Stop() {
	lv.mu.Lock()
	defer lv.mu.Unlock()

	lv.stopLocked()
}

func (lv *Live) stopLocked() {
	lv.running = false
	lv.token++

	if lv.cancel != nil {
		lv.cancel()
		lv.cancel = nil
	}
}

func (lv *Live) Close() error {
	lv.Stop()
	return nil
}

func (lv *Live) Running() bool {
	lv.mu.Lock()
	defer lv.mu.Unlock()

	return lv.running
}

// Frames is the number of frames drawn successfully.
func (lv *Live) Frames() int {
	lv.mu.Lock()
	defer lv.mu.Unlock()

	return lv.frames
}

// Err returns the render error that stopped the loop, if any.
func (lv *Live) Err() error {
	lv.mu.Lock()
	defer lv.mu.Unlock()

	return lv.lastErr
}

func (lv *Live) tick(token uint64) {
	// Drawing happens under the lock so that Stop cannot return while a
	// frame is mid-draw.
	lv.mu.Lock()
	defer lv.mu.Unlock()

	if !lv.running || token != lv.token {
		return
	}

	if lv.active != nil && !lv.active() {
		lv.stopLocked()
		return
	}

	channels := max(lv.tap.Channels(), 1)
	if want := lv.analyzer.Size() * channels; len(lv.buf) != want {
		lv.buf = make([]float32, want)
	}

	n := lv.tap.Recent(lv.buf)
	bars := lv.analyzer.Analyze(lv.buf[:n], channels)

	if err := lv.safeDraw(bars); err != nil {
		rerr := &RenderError{Frame: lv.frames, Err: err}
		lv.lastErr = rerr
		lv.stopLocked()
		lv.logger.Warn("spectrum disabled", "error", rerr)

		return
	}

	lv.frames++
	lv.requestLocked()
}

var errDrawPanic = errors.New("draw panicked")

func (lv *Live) safeDraw(bars []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			lv.logger.Error("draw panic", "panic", r)
			err = errDrawPanic
		}
	}()

	return lv.draw(bars)
}

// SPDX-License-Identifier: EPL-2.0

package gate

import (
	"log/slog"
	"sync"

	"github.com/ik5/audtrim/frame"
)

// MaxAttempts bounds the poll to about one second at 60 fps.
const MaxAttempts = 60

type State int

const (
	Idle State = iota
	WaitingForLayout
	Ready
	Failed
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WaitingForLayout:
		return "waiting-for-layout"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	}

	return "unknown"
}

// Gate defers work until a surface has a non-empty layout. It polls the
// surface once per frame for at most MaxAttempts frames, and an optional
// observer can end the wait early.
type Gate struct {
	surface     frame.Surface
	scheduler   frame.Scheduler
	observer    frame.Observer
	maxAttempts int
	logger      *slog.Logger

	mu          sync.Mutex
	state       State
	attempts    int
	token       uint64
	cancelFrame func()
	disconnect  func()
	onReady     func(frame.Size)
	onFail      func(error)
}

type Option func(*Gate)

// WithObserver subscribes to layout changes while waiting.
func WithObserver(o frame.Observer) Option {
	return func(g *Gate) { g.observer = o }
}

// WithMaxAttempts overrides MaxAttempts. Values <= 0 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

func New(surface frame.Surface, scheduler frame.Scheduler, opts ...Option) *Gate {
	g := &Gate{
		surface:     surface,
		scheduler:   scheduler,
		maxAttempts: MaxAttempts,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Attempts is the number of frames polled so far.
func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.attempts
}

// Start begins waiting. Exactly one of onReady or onFail is called later,
// unless the gate is destroyed first. Start on a gate that is not Idle does
// nothing.
func (g *Gate) Start(onReady func(frame.Size), onFail func(error)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Idle {
		return
	}

	g.state = WaitingForLayout
	g.onReady, g.onFail = onReady, onFail

	if g.observer != nil {
		g.disconnect = g.observer.Observe(g.layoutChanged)
	}

	g.requestLocked()
}

func (g *Gate) requestLocked() {
	g.token++
	token := g.token
	g.cancelFrame = g.scheduler.Request(func() { g.poll(token) })
}

func (g *Gate) poll(token uint64) {
	g.mu.Lock()

	if g.state != WaitingForLayout || token != g.token {
		g.mu.Unlock()
		return
	}

	g.attempts++
	size := g.surface.Size()

	switch {
	case !size.Empty():
		g.mu.Unlock()
		g.finish(size, nil)
	case g.attempts >= g.maxAttempts:
		err := &TimeoutError{Attempts: g.attempts}
		g.mu.Unlock()
		g.finish(size, err)
	default:
		g.requestLocked()
		g.mu.Unlock()
	}
}

func (g *Gate) layoutChanged(size frame.Size) {
	if size.Empty() {
		return
	}

	g.finish(size, nil)
}

// finish moves a waiting gate to Ready or Failed and runs the callback.
func (g *Gate) finish(size frame.Size, err error) {
	g.mu.Lock()

	if g.state != WaitingForLayout {
		g.mu.Unlock()
		return
	}

	g.releaseLocked()

	onReady, onFail := g.onReady, g.onFail
	g.onReady, g.onFail = nil, nil
	attempts := g.attempts

	if err != nil {
		g.state = Failed
	} else {
		g.state = Ready
	}
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn("layout wait failed", "attempts", attempts, "error", err)
		if onFail != nil {
			onFail(err)
		}
		return
	}

	g.logger.Debug("surface ready", "attempts", attempts, "width", size.Width, "height", size.Height)
	if onReady != nil {
		onReady(size)
	}
}

func (g *Gate) releaseLocked() {
	g.token++

	if g.cancelFrame != nil {
		g.cancelFrame()
		g.cancelFrame = nil
	}

	if g.disconnect != nil {
		g.disconnect()
		g.disconnect = nil
	}
}

// Destroy cancels a pending frame and the observer subscription. No callback
// runs afterwards. Destroy is safe to call more than once.
func (g *Gate) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Destroyed {
		return
	}

	g.releaseLocked()
	g.state = Destroyed
	g.onReady, g.onFail = nil, nil
}

// Close is Destroy, for use as an io.Closer.
func (g *Gate) Close() error {
	g.Destroy()
	return nil
}

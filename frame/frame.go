// SPDX-License-Identifier: EPL-2.0

package frame

import (
	"sync"
	"time"
)

// DefaultFPS is the frame rate Timer uses when none is given.
const DefaultFPS = 60

// Size is a surface layout in cells or pixels.
type Size struct {
	Width  int
	Height int
}

// Empty reports whether the surface has no drawable area.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Scheduler runs a callback once on the next frame. The returned cancel
// function is safe to call any number of times, even after fn ran.
type Scheduler interface {
	Request(fn func()) (cancel func())
}

// Surface reports its current layout.
type Surface interface {
	Size() Size
}

// Observer delivers layout changes until disconnected.
type Observer interface {
	Observe(fn func(Size)) (disconnect func())
}

// Timer schedules frames in real time on timer goroutines.
type Timer struct {
	interval time.Duration
}

// NewTimer returns a Timer running at fps frames per second. Values <= 0
// select DefaultFPS.
func NewTimer(fps int) *Timer {
	if fps <= 0 {
		fps = DefaultFPS
	}

	return &Timer{interval: time.Second / time.Duration(fps)}
}

func (t *Timer) Interval() time.Duration { return t.interval }

func (t *Timer) Request(fn func()) func() {
	tm := time.AfterFunc(t.interval, fn)
	return func() { tm.Stop() }
}

// Queue is a Scheduler driven by its owner: nothing runs until Flush. Hosts
// with their own render loop, and tests, use it to step frames explicitly.
type Queue struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func()
	order   []uint64
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[uint64]func())}
}

func (q *Queue) Request(fn func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.next
	q.next++
	q.pending[id] = fn
	q.order = append(q.order, id)

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		delete(q.pending, id)
	}
}

// Flush runs one frame: every callback requested before the call, in
// request order. Callbacks requested while flushing wait for the next frame.
// It returns the number of callbacks run.
func (q *Queue) Flush() int {
	q.mu.Lock()
	order := q.order
	q.order = nil

	due := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			due = append(due, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range due {
		fn()
	}

	return len(due)
}

// Pending is the number of callbacks waiting for the next Flush.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Canvas is a Surface whose size is set by the host. It is also the
// Observer for its own resizes.
type Canvas struct {
	mu        sync.Mutex
	size      Size
	next      int
	observers map[int]func(Size)
}

func NewCanvas(size Size) *Canvas {
	return &Canvas{size: size, observers: make(map[int]func(Size))}
}

func (c *Canvas) Size() Size {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.size
}

// Resize records the new layout and notifies observers when it changed.
// Observers run on the caller's goroutine, outside the canvas lock.
func (c *Canvas) Resize(size Size) {
	c.mu.Lock()
	if size == c.size {
		c.mu.Unlock()
		return
	}

	c.size = size
	fns := make([]func(Size), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(size)
	}
}

func (c *Canvas) Observe(fn func(Size)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.next
	c.next++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.observers, id)
	}
}

// Observers is the number of connected observers.
func (c *Canvas) Observers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.observers)
}

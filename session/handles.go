// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audtrim/storage"
)

// DefaultReleaseDelay is how long a stream outlives a Close that happened
// during a load.
const DefaultReleaseDelay = 100 * time.Millisecond

// Handles owns the ephemeral resources of one session: the current stream
// and any tracked closers. At most one stream is current; acquiring a new
// one releases the old one first.
type Handles struct {
	store  *storage.Store
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	stream  *storage.Stream
	loading int
	idle    chan struct{} // closed when loading drops to zero
	closers map[int]io.Closer
	next    int
	closed  bool
	pending sync.WaitGroup
}

func NewHandles(store *storage.Store, delay time.Duration, logger *slog.Logger) *Handles {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Handles{
		store:   store,
		delay:   delay,
		logger:  logger,
		closers: make(map[int]io.Closer),
	}
}

// Acquire copies r into a new stream and makes it current.
func (h *Handles) Acquire(ctx context.Context, name string, r io.Reader) (*storage.Stream, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}

	if h.stream != nil {
		h.releaseLocked(h.stream)
		h.stream = nil
	}
	h.mu.Unlock()

	st, err := h.store.Create(ctx, name, r)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.releaseLocked(st)
		return nil, ErrClosed
	}

	if h.stream != nil {
		// Another Acquire finished while this one was copying.
		h.releaseLocked(h.stream)
	}

	h.stream = st

	return st, nil
}

// Stream is the current stream, or nil.
func (h *Handles) Stream() *storage.Stream {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stream
}

// BeginLoad marks a load as in flight until done is called. done may be
// called more than once.
func (h *Handles) BeginLoad() (done func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loading == 0 {
		h.idle = make(chan struct{})
	}
	h.loading++

	var once sync.Once

	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			h.loading--
			if h.loading == 0 {
				close(h.idle)
			}
		})
	}
}

// Loading reports whether a load is in flight.
func (h *Handles) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.loading > 0
}

// Track registers c to be closed by Close. The returned function forgets it
// without closing.
func (h *Handles) Track(c io.Closer) (untrack func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		if err := c.Close(); err != nil {
			h.logger.Warn("close handle", "error", err)
		}
		return func() {}
	}

	id := h.next
	h.next++
	h.closers[id] = c

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.closers, id)
	}
}

// Tracked is the number of closers Close would close.
func (h *Handles) Tracked() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.closers)
}

// releaseLocked removes st now, or once the in-flight loads have finished
// and the release delay has passed.
func (h *Handles) releaseLocked(st *storage.Stream) {
	if h.loading == 0 {
		h.release(st)
		return
	}

	idle := h.idle
	h.pending.Add(1)

	h.logger.Debug("stream release deferred", "uri", st.URI, "delay", h.delay)

	go func() {
		defer h.pending.Done()

		<-time.After(h.delay)
		<-idle
		h.release(st)
	}()
}

func (h *Handles) release(st *storage.Stream) {
	if err := h.store.Release(st.URI); err != nil && !errors.Is(err, storage.ErrStreamNotFound) {
		h.logger.Warn("release stream", "uri", st.URI, "error", err)
		return
	}

	h.logger.Debug("stream released", "uri", st.URI)
}

// Close closes tracked handles and releases the stream. It is idempotent.
func (h *Handles) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true

	closers := h.closers
	h.closers = nil

	if h.stream != nil {
		h.releaseLocked(h.stream)
		h.stream = nil
	}
	h.mu.Unlock()

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Wait blocks until deferred releases are done.
func (h *Handles) Wait() {
	h.pending.Wait()
}

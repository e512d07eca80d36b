// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ik5/audtrim/audio"
)

// URIScheme prefixes every stream URI.
const URIScheme = "blob:"

var (
	ErrStreamNotFound = errors.New("stream not found")
	ErrStoreClosed    = errors.New("store is closed")
)

// Stream is a temporary copy of an asset on disk, addressed by a
// "blob:<uuid>" URI until released.
type Stream struct {
	URI  string
	Name string
	Path string
	Size int64
}

// Store keeps temporary streams in a directory.
type Store struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	streams map[string]*Stream
	closed  bool
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates dir if needed. An empty dir selects a directory under
// os.TempDir().
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "audtrim")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	s := &Store{
		dir:     dir,
		logger:  slog.New(slog.DiscardHandler),
		streams: make(map[string]*Stream),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Store) Dir() string { return s.dir }

// Create copies r into a new stream. name is kept for display and format
// hints only.
func (s *Store) Create(ctx context.Context, name string, r io.Reader) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return nil, ErrStoreClosed
	}

	id := uuid.New()

	f, err := os.CreateTemp(s.dir, "stream_"+id.String()+"_*"+safeExt(name))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	path := f.Name()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	st := &Stream{
		URI:  URIScheme + id.String(),
		Name: name,
		Path: path,
		Size: size,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = os.Remove(path)
		return nil, ErrStoreClosed
	}
	s.streams[st.URI] = st
	s.mu.Unlock()

	s.logger.Debug("stream created", "uri", st.URI, "name", name, "size", size)

	return st, nil
}

func safeExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || strings.ContainsAny(ext, `/\*`) || len(ext) > 8 {
		return ""
	}

	return ext
}

// Open returns a reader over a live stream. The caller closes it.
func (s *Store) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	st, ok := s.streams[uri]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, uri)
	}

	f, err := os.Open(st.Path) // #nosec G304 - path is created by the store
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", uri, err)
	}

	return f, nil
}

// Asset exposes a stream as a decodable asset.
func (s *Store) Asset(st *Stream) *audio.Asset {
	return audio.NewReaderAsset(st.Name, st.Size, func() (io.ReadCloser, error) {
		return s.Open(context.Background(), st.URI)
	})
}

// Release removes a stream. Releasing an unknown or already released URI
// returns ErrStreamNotFound.
func (s *Store) Release(uri string) error {
	s.mu.Lock()
	st, ok := s.streams[uri]
	delete(s.streams, uri)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, uri)
	}

	if err := os.Remove(st.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stream %s: %w", uri, err)
	}

	s.logger.Debug("stream released", "uri", uri)

	return nil
}

// Live lists the URIs that were created and not yet released, sorted.
func (s *Store) Live() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.streams))
	for uri := range s.streams {
		out = append(out, uri)
	}
	slices.Sort(out)

	return out
}

// Close releases every live stream. It continues past failures and returns
// them joined.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	uris := make([]string, 0, len(s.streams))
	for uri := range s.streams {
		uris = append(uris, uri)
	}
	s.mu.Unlock()

	var errs []error
	for _, uri := range uris {
		if err := s.Release(uri); err != nil && !errors.Is(err, ErrStreamNotFound) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

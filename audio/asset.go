// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Asset is an opaque, immutable audio byte source owned by the caller. The
// engine only borrows it for the duration of one decode.
type Asset struct {
	// Name is the logical file name, used for format hints and output naming.
	// It may be empty, e.g. for microphone captures.
	Name string
	// Size is the byte length, or -1 when unknown.
	Size int64

	open func() (io.ReadCloser, error)
}

// NewBytesAsset wraps an in-memory blob.
func NewBytesAsset(name string, data []byte) *Asset {
	return &Asset{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewFileAsset refers to a file on disk. The file is opened lazily.
func NewFileAsset(path string) (*Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat asset: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("asset %s is a directory", path)
	}

	return &Asset{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// NewReaderAsset wraps an opener, e.g. a temporary stream handle.
func NewReaderAsset(name string, size int64, open func() (io.ReadCloser, error)) *Asset {
	return &Asset{Name: name, Size: size, open: open}
}

// Open returns a fresh reader over the asset bytes.
func (a *Asset) Open() (io.ReadCloser, error) {
	if a == nil || a.open == nil {
		return nil, fmt.Errorf("asset has no byte source")
	}

	return a.open()
}

// Ext returns the lower-case file extension of the asset name without the dot.
func (a *Asset) Ext() string {
	ext := filepath.Ext(a.Name)
	if len(ext) > 0 {
		ext = ext[1:]
	}

	return strings.ToLower(ext)
}

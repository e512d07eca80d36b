// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWidth = errors.New("summary width must be positive")
	ErrEmptyBuffer  = errors.New("buffer has no channels")
)

// RenderError wraps a failed draw. It ends the live loop but never touches
// playback or export.
type RenderError struct {
	Frame int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame %d: %v", e.Frame, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"fmt"
)

// ErrDecode matches every *Error through errors.Is.
var ErrDecode = errors.New("decode failed")

var (
	ErrEmptyInput   = errors.New("empty input")
	ErrUnrecognized = errors.New("unrecognized container")
	ErrUnsupported  = errors.New("no decoder for format")
	ErrNoFrames     = errors.New("decoded zero frames")
	ErrBadRate      = errors.New("non-positive sample rate")
)

// Error describes why one decode attempt failed. It is final for that
// attempt; nothing retries it.
type Error struct {
	Asset  string
	Format string
	Err    error
}

func (e *Error) Error() string {
	name := e.Asset
	if name == "" {
		name = "<unnamed>"
	}

	if e.Format == "" {
		return fmt.Sprintf("decode %s: %v", name, e.Err)
	}

	return fmt.Sprintf("decode %s (%s): %v", name, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrDecode }

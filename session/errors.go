// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	ErrNotReady       = errors.New("session is not ready")
	ErrClosed         = errors.New("session is closed")
	ErrNoAsset        = errors.New("no asset given")
	ErrNoPlayback     = errors.New("no playback device")
	ErrInvalidOptions = errors.New("invalid session options")
	ErrNotFound       = errors.New("session not found")
)

// loadFailedMessage is what a user sees when decode or layout failed.
const loadFailedMessage = "waveform failed to load, reopen the editor"

// LoadError is a failed layout wait or decode. The session cannot recover;
// a new one has to be opened. It matches ErrNotReady as well as the cause.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return loadFailedMessage + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() []error { return []error{ErrNotReady, e.Err} }

// UserMessage is the short message to show for a LoadError.
func (e *LoadError) UserMessage() string { return loadFailedMessage }

// SPDX-License-Identifier: EPL-2.0

package gate

import (
	"errors"
	"fmt"
)

// ErrLayoutTimeout matches *TimeoutError.
var ErrLayoutTimeout = errors.New("surface never got a layout")

// TimeoutError is the terminal failure of a gate that polled MaxAttempts
// frames without seeing a non-empty surface.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v after %d frames", ErrLayoutTimeout, e.Attempts)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrLayoutTimeout }

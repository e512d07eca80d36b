// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrNoChannels is returned when a buffer or source reports zero channels.
	ErrNoChannels = errors.New("audio has no channels")

	// ErrInvalidSampleRate is returned for a zero or negative sample rate.
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrFrameOutOfRange is returned when a frame index lies outside a buffer.
	ErrFrameOutOfRange = errors.New("frame index out of range")
)

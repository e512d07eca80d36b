// SPDX-License-Identifier: EPL-2.0

package region

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyRegion is returned when a region would have no length after
	// clamping. The previous region is kept.
	ErrEmptyRegion = errors.New("region is empty")
	// ErrNoRegion is returned when an operation needs a region and none exists.
	ErrNoRegion = errors.New("no region selected")
)

// Region is a time range [Start, End) in seconds.
type Region struct {
	Start float64
	End   float64
}

func (r Region) Length() float64 { return r.End - r.Start }

// Valid reports whether 0 <= Start < End <= duration.
func (r Region) Valid(duration float64) bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= duration
}

func (r Region) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", r.Start, r.End)
}

// Clamp applies the editor's constraints to [start, end). A reversed range
// is swapped. When max > 0 and the range is longer than max, the end is
// pulled in to start+max if that fits in duration, otherwise the window
// becomes [duration-max, duration]. Finally both ends are bounded by
// [0, duration].
func Clamp(start, end, duration, max float64) (Region, error) {
	if math.IsNaN(start) || math.IsNaN(end) || !(duration > 0) {
		return Region{}, ErrEmptyRegion
	}

	if start > end {
		start, end = end, start
	}

	if max > 0 && end-start > max {
		if start+max <= duration {
			end = start + max
		} else {
			start = math.Max(0, duration-max)
			end = duration
		}
	}

	start = math.Max(start, 0)
	end = math.Min(end, duration)

	if !(end > start) {
		return Region{}, ErrEmptyRegion
	}

	return Region{Start: start, End: end}, nil
}

// DefaultRegion is the selection seeded after decode: the whole asset, or
// its first max seconds.
func DefaultRegion(duration, max float64) Region {
	end := duration
	if max > 0 && max < duration {
		end = max
	}

	return Region{Start: 0, End: end}
}

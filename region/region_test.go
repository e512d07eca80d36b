// SPDX-License-Identifier: EPL-2.0

package region

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestClamp_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end float64
		duration   float64
		max        float64
		want       Region
		err        error
	}{
		{"inside, no max", 1, 4, 10, 0, Region{1, 4}, nil},
		{"end past duration", 5, 35, 20, 30, Region{5, 20}, nil},
		{"longer than max pulls end in", 2, 50, 60, 30, Region{2, 32}, nil},
		{"longer than max near end shifts window", 40, 80, 60, 30, Region{30, 60}, nil},
		{"max longer than asset", 0, 100, 20, 30, Region{0, 20}, nil},
		{"reversed", 8, 3, 10, 0, Region{3, 8}, nil},
		{"negative start", -2, 3, 10, 0, Region{0, 3}, nil},
		{"start past duration", 25, 30, 20, 0, Region{}, ErrEmptyRegion},
		{"zero length", 3, 3, 10, 0, Region{}, ErrEmptyRegion},
		{"zero duration", 0, 1, 0, 0, Region{}, ErrEmptyRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Clamp(tt.start, tt.end, tt.duration, tt.max)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Clamp() error = %v, want %v", err, tt.err)
			}

			if got != tt.want {
				t.Errorf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

// For every valid input the result respects max and the asset bounds.
func TestClamp_PropertySweep(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 20000 {
		duration := 0.5 + rng.Float64()*120
		max := rng.Float64() * 60
		if i%5 == 0 {
			max = 0
		}

		start := rng.Float64()*duration*1.4 - duration*0.2
		end := rng.Float64()*duration*1.4 - duration*0.2

		r, err := Clamp(start, end, duration, max)
		if err != nil {
			continue
		}

		if !r.Valid(duration) {
			t.Fatalf("Clamp(%v, %v, %v, %v) = %v, outside [0, %v]", start, end, duration, max, r, duration)
		}

		if max > 0 && r.Length() > max+1e-9 {
			t.Fatalf("Clamp(%v, %v, %v, %v) = %v, longer than %v", start, end, duration, max, r, max)
		}
	}
}

func TestDefaultRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration, max float64
		want          Region
	}{
		{20, 0, Region{0, 20}},
		{20, 30, Region{0, 20}},
		{90, 30, Region{0, 30}},
	}

	for _, tt := range tests {
		if got := DefaultRegion(tt.duration, tt.max); got != tt.want {
			t.Errorf("DefaultRegion(%v, %v) = %v, want %v", tt.duration, tt.max, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
	}{
		{"x=0 is y1", 0, 1, 2, 3, 0, 1},
		{"x=1 is y2", 0, 1, 2, 3, 1, 2},
		{"linear ramp stays linear", 1, 2, 3, 4, 0.25, 2.25},
		{"flat line", 0.5, 0.5, 0.5, 0.5, 0.7, 0.5},
		{"symmetric peak midpoint", 0, 1, 1, 0, 0.5, 1.125},
		{"negative ramp", 0, -1, -2, -3, 0.5, -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("CubicInterpolate(%v, %v, %v, %v, %v) = %v, want %v",
					tt.y0, tt.y1, tt.y2, tt.y3, tt.x, got, tt.want)
			}
		})
	}
}

// A sampled sine stays close to the true curve between samples.
func TestCubicInterpolate_Sine(t *testing.T) {
	t.Parallel()

	const step = 0.1
	y := func(i float64) float32 { return float32(math.Sin(i * step)) }

	for x := float32(0); x <= 1; x += 0.125 {
		got := CubicInterpolate(y(-1), y(0), y(1), y(2), x)
		want := math.Sin(float64(x) * step)

		if math.Abs(float64(got)-want) > 1e-3 {
			t.Errorf("x=%v: got %v, want %v", x, got, want)
		}
	}
}

func TestCubicInterpolate_ZeroAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = CubicInterpolate(0.1, 0.2, 0.3, 0.4, 0.5)
	})

	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var sink float32
	for i := range b.N {
		sink += CubicInterpolate(0.1, 0.4, -0.2, 0.3, float32(i%100)/100)
	}
	_ = sink
}

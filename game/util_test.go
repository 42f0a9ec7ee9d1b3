package game

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{math.Pi + 0.5, -math.Pi + 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{1, 1},
	}
	for _, tt := range tests {
		if got := normalizeAngle(tt.in); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeadingVector(t *testing.T) {
	for x := float32(-2 * math.Pi); x <= 2*math.Pi; x += 0.037 {
		hx, hy := headingVector(x)
		if d := math.Abs(float64(hx) - math.Cos(float64(x))); d > 1e-4 {
			t.Errorf("cos(%v) off by %v", x, d)
		}
		if d := math.Abs(float64(hy) - math.Sin(float64(x))); d > 1e-4 {
			t.Errorf("sin(%v) off by %v", x, d)
		}
	}
}

func TestSpeedOf(t *testing.T) {
	if got := speedOf(3, -4); math.Abs(float64(got-5)) > 1e-6 {
		t.Errorf("speedOf(3, -4) = %v, want 5", got)
	}
	if speedOf(0, 0) != 0 {
		t.Error("speedOf(0, 0) should be 0")
	}
}

func BenchmarkHeadingVector(b *testing.B) {
	var sx, sy float32
	for i := 0; i < b.N; i++ {
		x, y := headingVector(float32(i) * 0.001)
		sx += x
		sy += y
	}
	_, _ = sx, sy
}

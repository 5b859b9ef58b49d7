package sim

import (
	"math"
	"testing"
)

func TestNormalQuantile_KnownValues(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.5, 0},
		{0.8413447460685429, 1},
		{0.975, 1.959963984540054},
		{0.99, 2.3263478740408408},
		{0.01, -2.3263478740408408},
		{0.001, -3.090232306167813},
	}
	for _, tt := range tests {
		got := NormalQuantile(tt.p)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalQuantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestNormalQuantile_Symmetric(t *testing.T) {
	for _, p := range []float64{0.001, 0.05, 0.2, 0.49} {
		lo, hi := NormalQuantile(p), NormalQuantile(1-p)
		if math.Abs(lo+hi) > 1e-9 {
			t.Errorf("NormalQuantile(%v) + NormalQuantile(%v) = %v, want 0", p, 1-p, lo+hi)
		}
	}
}

func TestNormalQuantile_ClosedEndsAreFinite(t *testing.T) {
	// GIVEN the closed ends of the probability interval
	// THEN the quantile is a finite extreme rather than an infinity
	if got := NormalQuantile(1); got != MaxQuantile {
		t.Errorf("NormalQuantile(1) = %v, want %v", got, MaxQuantile)
	}
	if got := NormalQuantile(0); got != -MaxQuantile {
		t.Errorf("NormalQuantile(0) = %v, want %v", got, -MaxQuantile)
	}
	if got := NormalQuantile(1.5); got != MaxQuantile {
		t.Errorf("NormalQuantile(1.5) = %v, want %v", got, MaxQuantile)
	}
	if got := NormalQuantile(math.NaN()); !math.IsNaN(got) {
		t.Errorf("NormalQuantile(NaN) = %v, want NaN", got)
	}
}

func TestNormalQuantile_Monotonic(t *testing.T) {
	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		got := NormalQuantile(p)
		if got < prev {
			t.Fatalf("NormalQuantile not monotonic at p=%v: %v < %v", p, got, prev)
		}
		prev = got
	}
}

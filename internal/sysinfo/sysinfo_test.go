package sysinfo

import (
	"math"
	"testing"
)

func TestComputeHealth(t *testing.T) {
	cases := []struct {
		name   string
		usages []float64
		want   float64
	}{
		{"no usage", []float64{0, 0}, 100},
		{"moderate", []float64{40, 20}, 60},
		{"max dominates", []float64{10, 95}, 5},
		{"saturated", []float64{100, 100}, 0},
		{"negative ignored", []float64{-5, 30}, 70},
	}
	for _, tc := range cases {
		if got := computeHealth(tc.usages...); got != tc.want {
			t.Errorf("%s: computeHealth(%v) = %v, want %v", tc.name, tc.usages, got, tc.want)
		}
	}
}

func TestClampFloat(t *testing.T) {
	if got := clampFloat(math.NaN(), 0, 100); got != 0 {
		t.Errorf("NaN should clamp to min, got %v", got)
	}
	if got := clampFloat(150, 0, 100); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := clampFloat(-1, 0, 100); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := clampFloat(42, 0, 100); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestSamplerStartStop(t *testing.T) {
	s := NewSampler()
	s.Start()
	s.Start() // second start is a no-op
	s.Stop()
	s.Stop() // second stop is a no-op
}

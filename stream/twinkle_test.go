package stream

import (
	"math"
	"testing"
)

func litSet(t *twinkles, n int, fraction float64) map[int]float64 {
	out := make(map[int]float64)
	for i := 0; i < n; i++ {
		if w := t.lit(i, n, fraction); w > 0 {
			out[i] = w
		}
	}
	return out
}

func TestTwinklesGrowMonotonically(t *testing.T) {
	tw := newTwinkles(1)
	few := litSet(tw, 10, 0.3)
	many := litSet(tw, 10, 0.5)
	if len(few) != 3 || len(many) != 5 {
		t.Fatalf("lit counts = %d and %d, want 3 and 5", len(few), len(many))
	}
	for i := range few {
		if _, ok := many[i]; !ok {
			t.Errorf("particle %d went out when the fraction grew", i)
		}
	}
}

func TestTwinklesPartialParticle(t *testing.T) {
	tw := newTwinkles(7)
	lit := litSet(tw, 10, 0.35)
	total := 0.0
	for _, w := range lit {
		total += w
	}
	if len(lit) != 4 || math.Abs(total-3.5) > 1e-9 {
		t.Errorf("lit = %v, want three full particles and one half", lit)
	}
}

func TestTwinklesEdges(t *testing.T) {
	tw := newTwinkles(3)
	if n := len(litSet(tw, 8, 0)); n != 0 {
		t.Errorf("fraction 0 lit %d", n)
	}
	if n := len(litSet(tw, 8, math.NaN())); n != 0 {
		t.Errorf("NaN fraction lit %d", n)
	}
	if n := len(litSet(tw, 8, 2)); n != 8 {
		t.Errorf("fraction 2 lit %d, want all", n)
	}
	// the pixel count can change between frames
	if n := len(litSet(tw, 4, 1)); n != 4 {
		t.Errorf("resized strip lit %d, want 4", n)
	}
}

func TestStripRenderTwinkle(t *testing.T) {
	s := redStrip(10)
	s.particles = newTwinkles(5)
	s.Twinkle = 0.2
	red := 0
	for _, p := range pixels(s.Render()) {
		if p == (rgb{255, 0, 0}) {
			red++
		}
	}
	if red != 2 {
		t.Errorf("red particles = %d, want 2", red)
	}
}

package easing

import (
	"math"
	"testing"
)

func TestEndpoints(t *testing.T) {
	for _, name := range Names() {
		fn, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestBoundedCurvesStayInRange(t *testing.T) {
	overshoot := map[Name]bool{
		ElasticIn: true, ElasticOut: true, ElasticInOut: true,
		BackIn: true, BackOut: true, BackInOut: true,
	}
	for _, name := range Names() {
		if overshoot[name] {
			continue
		}
		fn, _ := Lookup(name)
		for i := 0; i <= 100; i++ {
			p := float64(i) / 100
			got := fn(p)
			if got < -1e-9 || got > 1+1e-9 {
				t.Errorf("%s(%v) = %v, outside [0, 1]", name, p, got)
			}
		}
	}
}

func TestOvershootCurves(t *testing.T) {
	fn, _ := Lookup(BackIn)
	if got := fn(0.2); got >= 0 {
		t.Errorf("backIn(0.2) = %v, want negative overshoot", got)
	}
	fn, _ = Lookup(BackOut)
	if got := fn(0.8); got <= 1 {
		t.Errorf("backOut(0.8) = %v, want overshoot above 1", got)
	}
}

func TestDeterministic(t *testing.T) {
	for _, name := range Names() {
		fn, _ := Lookup(name)
		for _, p := range []float64{0.1, 0.33, 0.5, 0.9} {
			if a, b := fn(p), fn(p); a != b {
				t.Errorf("%s(%v) not deterministic: %v != %v", name, p, a, b)
			}
		}
	}
}

func TestEasingFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		easing Easing
		in     float64
		want   float64
	}{
		{"zero value", Easing{}, 0.3, 0.3},
		{"unknown name", Named("wobble"), 0.3, 0.3},
		{"nil custom", Custom(nil), 0.7, 0.7},
		{"spline", Named(Spline), 0.42, 0.42},
		{"quadraticIn", Named(QuadraticIn), 0.5, 0.25},
		{"custom", Custom(func(t float64) float64 { return 1 - t }), 0.25, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.easing.Apply(tt.in); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsSpline(t *testing.T) {
	if !Named(Spline).IsSpline() {
		t.Error("spline easing should select spline interpolation")
	}
	if Named(Linear).IsSpline() {
		t.Error("linear easing should not select spline interpolation")
	}
	if Custom(func(t float64) float64 { return t }).IsSpline() {
		t.Error("custom easing should not select spline interpolation")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		easing Easing
		want   string
	}{
		{Easing{}, "linear"},
		{Named(BounceOut), "bounceOut"},
		{Custom(func(t float64) float64 { return t }), "custom"},
	}
	for _, tt := range tests {
		if got := tt.easing.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRamp(t *testing.T) {
	lut := Ramp(Named(Linear), 4)
	want := []float64{0, 0.5, 0.5, 0}
	if len(lut) != len(want) {
		t.Fatalf("len = %d, want %d", len(lut), len(want))
	}
	for i := range want {
		if lut[i] != want[i] {
			t.Errorf("lut[%d] = %v, want %v", i, lut[i], want[i])
		}
	}

	odd := Ramp(Named(QuadraticInOut), 5)
	if odd[2] != 1 {
		t.Errorf("odd ramp peak = %v, want 1", odd[2])
	}
	if odd[0] != odd[4] || odd[1] != odd[3] {
		t.Errorf("odd ramp not symmetric: %v", odd)
	}

	if Ramp(Named(Linear), 0) != nil {
		t.Error("empty ramp should be nil")
	}
	if one := Ramp(Named(Linear), 1); len(one) != 1 || one[0] != 1 {
		t.Errorf("single entry ramp = %v, want [1]", one)
	}
}

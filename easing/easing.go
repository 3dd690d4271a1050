// Package easing maps named easing curves onto github.com/fogleman/ease.
//
// An easing takes linear progress in [0, 1] and returns adjusted progress.
// Elastic and back curves overshoot at interior points; every bundled curve
// returns exactly 0 at 0 and exactly 1 at 1.
package easing

import (
	"sort"

	"github.com/fogleman/ease"
)

// Func transforms linear progress into eased progress.
type Func = ease.Function

// Name identifies one of the bundled easing curves.
type Name string

const (
	Linear Name = "linear"

	QuadraticIn    Name = "quadraticIn"
	QuadraticOut   Name = "quadraticOut"
	QuadraticInOut Name = "quadraticInOut"

	CubicIn    Name = "cubicIn"
	CubicOut   Name = "cubicOut"
	CubicInOut Name = "cubicInOut"

	QuarticIn    Name = "quarticIn"
	QuarticOut   Name = "quarticOut"
	QuarticInOut Name = "quarticInOut"

	QuinticIn    Name = "quinticIn"
	QuinticOut   Name = "quinticOut"
	QuinticInOut Name = "quinticInOut"

	SinusoidalIn    Name = "sinusoidalIn"
	SinusoidalOut   Name = "sinusoidalOut"
	SinusoidalInOut Name = "sinusoidalInOut"

	ExponentialIn    Name = "exponentialIn"
	ExponentialOut   Name = "exponentialOut"
	ExponentialInOut Name = "exponentialInOut"

	CircularIn    Name = "circularIn"
	CircularOut   Name = "circularOut"
	CircularInOut Name = "circularInOut"

	ElasticIn    Name = "elasticIn"
	ElasticOut   Name = "elasticOut"
	ElasticInOut Name = "elasticInOut"

	BackIn    Name = "backIn"
	BackOut   Name = "backOut"
	BackInOut Name = "backInOut"

	BounceIn    Name = "bounceIn"
	BounceOut   Name = "bounceOut"
	BounceInOut Name = "bounceInOut"

	// Spline leaves progress linear and switches keyframe tracks to
	// Catmull-Rom interpolation.
	Spline Name = "spline"
)

var registry = map[Name]Func{
	Linear: ease.Linear,

	QuadraticIn:    ease.InQuad,
	QuadraticOut:   ease.OutQuad,
	QuadraticInOut: ease.InOutQuad,

	CubicIn:    ease.InCubic,
	CubicOut:   ease.OutCubic,
	CubicInOut: ease.InOutCubic,

	QuarticIn:    ease.InQuart,
	QuarticOut:   ease.OutQuart,
	QuarticInOut: ease.InOutQuart,

	QuinticIn:    ease.InQuint,
	QuinticOut:   ease.OutQuint,
	QuinticInOut: ease.InOutQuint,

	SinusoidalIn:    ease.InSine,
	SinusoidalOut:   ease.OutSine,
	SinusoidalInOut: ease.InOutSine,

	ExponentialIn:    ease.InExpo,
	ExponentialOut:   ease.OutExpo,
	ExponentialInOut: ease.InOutExpo,

	CircularIn:    ease.InCirc,
	CircularOut:   ease.OutCirc,
	CircularInOut: ease.InOutCirc,

	ElasticIn:    ease.InElastic,
	ElasticOut:   ease.OutElastic,
	ElasticInOut: ease.InOutElastic,

	BackIn:    ease.InBack,
	BackOut:   ease.OutBack,
	BackInOut: ease.InOutBack,

	BounceIn:    ease.InBounce,
	BounceOut:   ease.OutBounce,
	BounceInOut: ease.InOutBounce,

	Spline: ease.Linear,
}

func init() {
	for name, fn := range registry {
		registry[name] = pinned(fn)
	}
}

// pinned fixes the endpoints so the exponential and elastic curves land on
// exactly 0 and 1.
func pinned(fn Func) Func {
	return func(t float64) float64 {
		switch t {
		case 0:
			return 0
		case 1:
			return 1
		}
		return fn(t)
	}
}

// Lookup returns the bundled curve registered under name.
func Lookup(name Name) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns every bundled curve name in sorted order.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Easing is either a bundled curve name or a caller supplied function.
// The zero value is linear.
type Easing struct {
	name Name
	fn   Func
}

// Named selects a bundled curve. Unknown names behave as linear.
func Named(name Name) Easing {
	return Easing{name: name}
}

// Custom wraps a caller supplied curve. A nil fn behaves as linear.
func Custom(fn Func) Easing {
	return Easing{fn: fn}
}

// Name returns the curve name, or "" for custom curves.
func (e Easing) Name() Name {
	return e.name
}

// IsSpline reports whether keyframe tracks should use spline interpolation.
func (e Easing) IsSpline() bool {
	return e.fn == nil && e.name == Spline
}

// Func resolves the curve. Unknown names and nil functions fall back to
// identity so progress passes through unmodified.
func (e Easing) Func() Func {
	if e.fn != nil {
		return e.fn
	}
	if fn, ok := registry[e.name]; ok {
		return fn
	}
	return ease.Linear
}

// Apply evaluates the curve at t.
func (e Easing) Apply(t float64) float64 {
	return e.Func()(t)
}

func (e Easing) String() string {
	switch {
	case e.fn != nil:
		return "custom"
	case e.name == "":
		return string(Linear)
	default:
		return string(e.name)
	}
}

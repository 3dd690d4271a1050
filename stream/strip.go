package stream

import (
	"log"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/tween"
)

// Animatable strip properties.
const (
	PropColour     = "colour"
	PropBackground = "background"
	PropPosition   = "position"
	PropLength     = "length"
	PropBrightness = "brightness"
	PropGradient   = "gradient"
	PropLevels     = "levels"
)

// A Strip is the animated model of an led strip. A lit segment of Colour
// starting at Position and Length pixels long is drawn over the Gradient,
// or over Background when there is no gradient.
type Strip struct {
	Pixels     int
	Colour     string
	Background string
	Position   float64
	Length     float64
	Brightness float64
	Gradient   *tween.Gradient
	// Levels scales the strip in equal zones, one gain per zone.
	Levels []float64
	// Glow names an easing that shapes the lit segment. Empty draws a
	// solid segment.
	Glow string
	// Twinkle lights a fraction of the pixels in Colour as random particles.
	Twinkle float64

	particles *twinkles
}

// NewStrip creates a strip of n pixels with nothing lit.
func NewStrip(n int) *Strip {
	if n <= 0 {
		n = DefaultPixels
	}
	return &Strip{
		Pixels:     n,
		Colour:     "#808080",
		Background: "#000005",
		Brightness: 1,
		particles:  defaultTwinkles(),
	}
}

// Render draws the strip into a new Frame.
func (s *Strip) Render() *Frame {
	f := NewFrame(s.Pixels)
	n := len(f.pixels)

	back := solid(s.Background)
	fore, foreAlpha := colour(s.Colour)

	var table GradientTable
	if s.Gradient != nil {
		table = NewGradientTable(*s.Gradient)
	}

	var glow []float64
	if s.Glow != "" && s.Length >= 1 {
		glow = easing.Ramp(easing.Named(easing.Name(s.Glow)), int(math.Ceil(s.Length)))
	}

	if s.Twinkle > 0 && s.particles == nil {
		s.particles = defaultTwinkles()
	}

	brightness := unit(s.Brightness)
	for i := 0; i < n; i++ {
		c := back
		if len(table) > 0 {
			u := 0.0
			if n > 1 {
				u = float64(i) / float64(n-1)
			}
			gc, ga := table.GetColor(gradientPosition(*s.Gradient, u))
			c = c.BlendRgb(gc, unit(ga))
		}
		w := s.coverage(i, n, glow)
		if s.Twinkle > 0 {
			w = math.Max(w, s.particles.lit(i, n, s.Twinkle))
		}
		if w > 0 {
			c = c.BlendRgb(fore, w*foreAlpha)
		}
		f.pixels[i] = scale(c, s.level(i, n)*brightness).Clamped()
	}
	return f
}

// coverage returns how much of pixel i the lit segment covers, in [0, 1].
// The segment wraps around the end of the strip.
func (s *Strip) coverage(i, n int, glow []float64) float64 {
	length := s.Length
	if length <= 0 || math.IsNaN(length) || math.IsNaN(s.Position) {
		return 0
	}
	if length >= float64(n) {
		return 1
	}

	d := math.Mod(float64(i)-s.Position, float64(n))
	if d < 0 {
		d += float64(n)
	}
	// Pixel i spans [d, d+1) in segment space; the segment is [0, length)
	// and its copy shifted by n catches the pixel just behind the head.
	body := unit(length - d)
	wrap := unit(math.Min(d+1-float64(n), length))
	if glow != nil {
		k := 0
		if d < length {
			k = min(int(d), len(glow)-1)
		}
		body *= glow[k]
		wrap *= glow[0]
	}
	return math.Min(1, body+wrap)
}

func (s *Strip) level(i, n int) float64 {
	if len(s.Levels) == 0 {
		return 1
	}
	zone := i * len(s.Levels) / n
	gain := s.Levels[zone]
	if math.IsNaN(gain) {
		return 1
	}
	return math.Max(0, gain)
}

// colour parses a colour string, returning black for anything unparseable.
func colour(s string) (colorful.Color, float64) {
	rgba, ok := tween.ParseColor(s)
	if !ok {
		return colorful.Color{}, 0
	}
	return rgba.Colorful()
}

// solid composites a colour over black.
func solid(s string) colorful.Color {
	c, alpha := colour(s)
	return colorful.Color{}.BlendRgb(c, alpha)
}

func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// StripAccessor reads and writes Strip properties for an Animator. Unknown
// properties and values of the wrong type are logged and ignored.
type StripAccessor struct {
	Logger *log.Logger
}

func (a StripAccessor) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Get returns the current value of property. A strip without a gradient
// reads as nil.
func (a StripAccessor) Get(s *Strip, property string) any {
	switch property {
	case PropColour:
		return s.Colour
	case PropBackground:
		return s.Background
	case PropPosition:
		return s.Position
	case PropLength:
		return s.Length
	case PropBrightness:
		return s.Brightness
	case PropTwinkle:
		return s.Twinkle
	case PropGradient:
		if s.Gradient == nil {
			return nil
		}
		return s.Gradient.Clone()
	case PropLevels:
		if s.Levels == nil {
			return nil
		}
		return append([]float64(nil), s.Levels...)
	}
	a.logf("stream: unknown strip property %q", property)
	return nil
}

// Set writes value to property.
func (a StripAccessor) Set(s *Strip, property string, value any) {
	var ok bool
	switch property {
	case PropColour:
		ok = setAs(&s.Colour, value)
	case PropBackground:
		ok = setAs(&s.Background, value)
	case PropPosition:
		ok = setAs(&s.Position, value)
	case PropLength:
		ok = setAs(&s.Length, value)
	case PropBrightness:
		ok = setAs(&s.Brightness, value)
	case PropTwinkle:
		ok = setAs(&s.Twinkle, value)
	case PropGradient:
		ok = true
		switch g := value.(type) {
		case tween.Gradient:
			s.Gradient = &g
		case *tween.Gradient:
			s.Gradient = g
		case nil:
			s.Gradient = nil
		default:
			ok = false
		}
	case PropLevels:
		var levels []float64
		if ok = setAs(&levels, value); ok {
			s.Levels = append([]float64(nil), levels...)
		}
	default:
		a.logf("stream: unknown strip property %q", property)
		return
	}
	if !ok {
		a.logf("stream: cannot set strip %s to %T", property, value)
	}
}

func setAs[V any](dst *V, value any) bool {
	v, ok := value.(V)
	if ok {
		*dst = v
	}
	return ok
}

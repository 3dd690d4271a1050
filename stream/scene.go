package stream

import (
	"fmt"
	"sort"
	"time"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/tween"
	"gopkg.in/yaml.v2"
)

// A Scene is one keyframed animation of the strip.
type Scene struct {
	Name    string `yaml:"name"`
	Loop    bool   `yaml:"loop"`
	DelayMs int    `yaml:"delayMs"`
	Easing  string `yaml:"easing"`
	// Force animates tracks whose keyframes are all equal.
	Force bool   `yaml:"force"`
	Glow  string `yaml:"glow"`
	// HoldMs is how long a looping scene plays before the playlist moves
	// on. Zero holds it until Next is called.
	HoldMs    int             `yaml:"holdMs"`
	Keyframes []SceneKeyframe `yaml:"keyframes"`
}

// SceneKeyframe sets property values at a time in milliseconds.
type SceneKeyframe struct {
	Time  int                    `yaml:"time"`
	Props map[string]interface{} `yaml:"props"`
}

type gradientYAML struct {
	Type       string  `yaml:"type"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	X2         float64 `yaml:"x2"`
	Y2         float64 `yaml:"y2"`
	R          float64 `yaml:"r"`
	ColorStops []struct {
		Offset float64 `yaml:"offset"`
		Color  string  `yaml:"color"`
	} `yaml:"colorStops"`
}

type propDecoder func(v interface{}) (interface{}, error)

var propDecoders = map[string]propDecoder{
	PropColour:     decodeColour,
	PropBackground: decodeColour,
	PropPosition:   decodeNumber,
	PropLength:     decodeNumber,
	PropBrightness: decodeNumber,
	PropTwinkle:    decodeNumber,
	PropGradient:   decodeGradient,
	PropLevels:     decodeLevels,
}

// Validate checks that every keyframe decodes.
func (s *Scene) Validate() error {
	if len(s.Keyframes) == 0 {
		return fmt.Errorf("%w: %q has no keyframes", ErrInvalidScene, s.Name)
	}
	if s.DelayMs < 0 || s.HoldMs < 0 {
		return fmt.Errorf("%w: %q has a negative delay or hold", ErrInvalidScene, s.Name)
	}
	for _, name := range []string{s.Easing, s.Glow} {
		if name == "" {
			continue
		}
		if _, ok := easing.Lookup(easing.Name(name)); !ok {
			return fmt.Errorf("%w: %q uses unknown easing %q", ErrInvalidScene, s.Name, name)
		}
	}
	_, err := s.decode()
	return err
}

func (s *Scene) decode() ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, len(s.Keyframes))
	for i, kf := range s.Keyframes {
		if kf.Time < 0 {
			return nil, fmt.Errorf("%w: %q keyframe %d has negative time", ErrInvalidScene, s.Name, i)
		}
		props := make(map[string]interface{}, len(kf.Props))
		for name, raw := range kf.Props {
			decode, ok := propDecoders[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q keyframe %d: unknown property %q", ErrInvalidScene, s.Name, i, name)
			}
			v, err := decode(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %q keyframe %d: %s: %v", ErrInvalidScene, s.Name, i, name, err)
			}
			props[name] = v
		}
		out[i] = props
	}
	return out, nil
}

// EasingFunc returns the scene's easing.
func (s *Scene) EasingFunc() easing.Easing {
	if s.Easing == "" {
		return easing.Named(easing.Linear)
	}
	return easing.Named(easing.Name(s.Easing))
}

// Animator builds an unattached animator for strip holding the scene's
// keyframes. The strip's glow is set from the scene.
func (s *Scene) Animator(strip *Strip, accessor tween.Accessor[*Strip]) (*tween.Animator[*Strip], error) {
	frames, err := s.decode()
	if err != nil {
		return nil, err
	}
	strip.Glow = s.Glow
	a := tween.NewAnimator(strip, tween.AnimatorOptions[*Strip]{
		Loop:     s.Loop,
		Accessor: accessor,
	})
	order := make([]int, len(frames))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.Keyframes[order[i]].Time < s.Keyframes[order[j]].Time
	})
	for _, i := range order {
		a.When(time.Duration(s.Keyframes[i].Time)*time.Millisecond, frames[i])
	}
	return a.Delay(time.Duration(s.DelayMs) * time.Millisecond), nil
}

func decodeColour(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("want a colour string, got %T", v)
	}
	if _, ok := tween.ParseColor(s); !ok {
		return nil, fmt.Errorf("unparseable colour %q", s)
	}
	return s, nil
}

func decodeNumber(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return nil, fmt.Errorf("want a number, got %T", v)
}

func decodeLevels(v interface{}) (interface{}, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("want a list of numbers, got %T", v)
	}
	levels := make([]float64, len(items))
	for i, item := range items {
		n, err := decodeNumber(item)
		if err != nil {
			return nil, fmt.Errorf("level %d: %v", i, err)
		}
		levels[i] = n.(float64)
	}
	return levels, nil
}

// decodeGradient converts a YAML mapping into a tween.Gradient by
// re-encoding it into gradientYAML.
func decodeGradient(v interface{}) (interface{}, error) {
	if _, ok := v.(map[interface{}]interface{}); !ok {
		return nil, fmt.Errorf("want a gradient mapping, got %T", v)
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var gy gradientYAML
	if err := yaml.UnmarshalStrict(b, &gy); err != nil {
		return nil, err
	}

	g := tween.Gradient{
		Type: tween.LinearGradient,
		X:    gy.X,
		Y:    gy.Y,
		X2:   gy.X2,
		Y2:   gy.Y2,
		R:    gy.R,
	}
	switch tween.GradientType(gy.Type) {
	case "", tween.LinearGradient:
	case tween.RadialGradient:
		g.Type = tween.RadialGradient
	default:
		return nil, fmt.Errorf("unknown gradient type %q", gy.Type)
	}
	if len(gy.ColorStops) == 0 {
		return nil, fmt.Errorf("gradient has no colour stops")
	}
	for _, stop := range gy.ColorStops {
		if _, ok := tween.ParseColor(stop.Color); !ok {
			return nil, fmt.Errorf("unparseable colour %q", stop.Color)
		}
		g.ColorStops = append(g.ColorStops, tween.ColorStop{Offset: stop.Offset, Color: stop.Color})
	}
	return g, nil
}

package tween

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a colour as red, green and blue in [0, 255] and alpha in [0, 1].
type RGBA [4]float64

var namedColors = map[string]RGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"lime":        {0, 255, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"cyan":        {0, 255, 255, 1},
	"aqua":        {0, 255, 255, 1},
	"magenta":     {255, 0, 255, 1},
	"fuchsia":     {255, 0, 255, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"silver":      {192, 192, 192, 1},
	"maroon":      {128, 0, 0, 1},
	"olive":       {128, 128, 0, 1},
	"navy":        {0, 0, 128, 1},
	"purple":      {128, 0, 128, 1},
	"teal":        {0, 128, 128, 1},
	"orange":      {255, 165, 0, 1},
	"pink":        {255, 192, 203, 1},
}

// ParseColor reads hex (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb(), rgba(),
// hsl(), hsla() and basic keyword colours.
func ParseColor(s string) (RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RGBA{}, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if s[0] == '#' {
		return parseHex(s)
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return RGBA{}, false
	}
	fn := strings.TrimSpace(s[:open])
	args := strings.Split(s[open+1:len(s)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, false
	}

	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseUnit(args[3])
		if !ok {
			return RGBA{}, false
		}
		alpha = clamp(a, 0, 1)
	}

	switch fn {
	case "rgb", "rgba":
		var c RGBA
		for i := 0; i < 3; i++ {
			v, ok := parseByte(args[i])
			if !ok {
				return RGBA{}, false
			}
			c[i] = v
		}
		c[3] = alpha
		return c, true
	case "hsl", "hsla":
		h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			return RGBA{}, false
		}
		sat, ok := parseUnit(args[1])
		if !ok {
			return RGBA{}, false
		}
		light, ok := parseUnit(args[2])
		if !ok {
			return RGBA{}, false
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		col := colorful.Hsl(h, clamp(sat, 0, 1), clamp(light, 0, 1)).Clamped()
		return fromColorful(col, alpha), true
	}
	return RGBA{}, false
}

func parseHex(s string) (RGBA, bool) {
	alpha := 1.0
	switch len(s) {
	case 4, 7:
	case 5:
		a, err := strconv.ParseUint(s[4:], 16, 8)
		if err != nil {
			return RGBA{}, false
		}
		alpha = float64(a) / 15
		s = s[:4]
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	default:
		return RGBA{}, false
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, false
	}
	return fromColorful(col, alpha), true
}

func fromColorful(c colorful.Color, alpha float64) RGBA {
	return RGBA{
		math.Round(c.R * 255),
		math.Round(c.G * 255),
		math.Round(c.B * 255),
		alpha,
	}
}

// parseByte reads a channel as a number in [0, 255] or a percentage.
func parseByte(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(math.Round(f/100*255), 0, 255), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(math.Round(f), 0, 255), true
}

// parseUnit reads a fraction or a percentage as a fraction.
func parseUnit(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return f / 100, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// String formats the colour as rgba(r,g,b,a). Channels are clamped, red,
// green and blue are floored to integers and alpha keeps its fraction.
func (c RGBA) String() string {
	var sb strings.Builder
	sb.WriteString("rgba(")
	for i := 0; i < 3; i++ {
		sb.WriteString(strconv.Itoa(int(math.Floor(clamp(c[i], 0, 255)))))
		sb.WriteByte(',')
	}
	sb.WriteString(strconv.FormatFloat(clamp(c[3], 0, 1), 'f', -1, 64))
	sb.WriteByte(')')
	return sb.String()
}

// Colorful converts to a colorful.Color plus alpha.
func (c RGBA) Colorful() (colorful.Color, float64) {
	return colorful.Color{
		R: clamp(c[0], 0, 255) / 255,
		G: clamp(c[1], 0, 255) / 255,
		B: clamp(c[2], 0, 255) / 255,
	}, clamp(c[3], 0, 1)
}

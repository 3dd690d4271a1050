package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPixels is the pixel count of a frame when none is configured.
const DefaultPixels = 500

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a black frame of n pixels.
func NewFrame(n int) *Frame {
	if n < 0 {
		n = 0
	}
	return &Frame{pixels: make([]colorful.Color, n)}
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// SetPixel sets pixel i.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	f.pixels[i] = c
}

// InterpolateFrame merges two frames. Pixels beyond the shorter frame are
// taken from f.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f.pixels))
	for i := range f.pixels {
		if i < len(f2.pixels) {
			out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
		} else {
			out.pixels[i] = f.pixels[i]
		}
	}
	return out
}

// MarshalBinary converts a Frame into a little-endian uint16 pixel count
// followed by one RGB triplet per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, len(f.pixels)*3+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}
	return data, nil
}

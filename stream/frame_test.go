package stream

import (
	"bytes"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestFrameMarshalBinary(t *testing.T) {
	f := NewFrame(3)
	f.SetPixel(0, colorful.Color{R: 1})
	f.SetPixel(1, colorful.Color{G: 0.5, B: 1})
	f.SetPixel(2, colorful.Color{R: 2, G: -1})

	got, err := f.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 255, 0, 0, 0, 128, 255, 255, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("MarshalBinary = %v, want %v", got, want)
	}
}

func TestFrameMarshalBinaryCountIsLittleEndian(t *testing.T) {
	got, _ := NewFrame(DefaultPixels).MarshalBinary()
	if len(got) != 2+3*DefaultPixels {
		t.Fatalf("len = %d", len(got))
	}
	if got[0] != 0xf4 || got[1] != 0x01 {
		t.Errorf("count bytes = %#x %#x, want 0xf4 0x01", got[0], got[1])
	}
}

func TestNewFrameNegative(t *testing.T) {
	if n := NewFrame(-3).Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestFrameInterpolateEndpoints(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	f1 := NewFrame(2)
	f2 := NewFrame(1)
	f2.SetPixel(0, white)

	start := f1.InterpolateFrame(f2, 0)
	if r, g, b := start.Pixel(0).RGB255(); r != 0 || g != 0 || b != 0 {
		t.Errorf("t=0 pixel = %d,%d,%d, want black", r, g, b)
	}
	end := f1.InterpolateFrame(f2, 1)
	if r, g, b := end.Pixel(0).RGB255(); r != 255 || g != 255 || b != 255 {
		t.Errorf("t=1 pixel = %d,%d,%d, want white", r, g, b)
	}
	if end.Len() != 2 || end.Pixel(1) != f1.Pixel(1) {
		t.Error("pixels past the shorter frame should come from the receiver")
	}
}

package utils

import (
	"math"
	"testing"
)

func TestNewColorFloatBytes(t *testing.T) {
	c := NewColorFloatBytes(255, 0, 127, 255)
	if c[0] != 1 || c[1] != 0 || c[3] != 1 {
		t.Errorf("Wrong color %v", c)
	}
	if math.Abs(float64(c[2])-127.0/255.0) > 1e-6 {
		t.Errorf("Wrong blue channel %v", c[2])
	}
}

func TestColorFloatRGBA(t *testing.T) {
	c := ColorFloat{1, 0, 0.5, 1}
	r, g, b, a := c.RGBA()
	if r != 0xffff || g != 0 || a != 0xffff {
		t.Errorf("Wrong RGBA %v %v %v %v", r, g, b, a)
	}
	if b < 0x7f00 || b > 0x8100 {
		t.Errorf("Wrong blue channel %v", b)
	}
}

func TestSRGBToLinear(t *testing.T) {
	tests := []struct {
		in, out float32
	}{
		{0, 0},
		{1, 1},
		{0.04045, 0.04045 / 12.92},
		{0.5, 0.21404114},
	}
	for _, test := range tests {
		if got := SRGBToLinear(test.in); math.Abs(float64(got-test.out)) > 1e-6 {
			t.Errorf("SRGBToLinear(%v)=%v; expected %v", test.in, got, test.out)
		}
	}
}

func TestToLinearKeepsAlpha(t *testing.T) {
	c := ColorFloat{0.5, 0.5, 0.5, 0.25}.ToLinear()
	if c[3] != 0.25 {
		t.Errorf("Alpha changed to %v", c[3])
	}
	if c[0] >= 0.5 {
		t.Errorf("Linear value %v is not darker than srgb 0.5", c[0])
	}
}

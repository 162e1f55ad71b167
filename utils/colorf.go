package utils

import "math"

type ColorFloat [4]float32

func (c *ColorFloat) RGBA() (r, g, b, a uint32) {
	const mf = float32(256*256 - 1)
	r = uint32(c[0] * mf)
	g = uint32(c[1] * mf)
	b = uint32(c[2] * mf)
	a = uint32(c[3] * mf)
	return
}

func NewColorFloatBytes(r, g, b, a uint8) ColorFloat {
	return ColorFloat{
		float32(r) / 255.0,
		float32(g) / 255.0,
		float32(b) / 255.0,
		float32(a) / 255.0,
	}
}

// per IEC 61966-2-1
func SRGBToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

func (c ColorFloat) ToLinear() ColorFloat {
	return ColorFloat{
		SRGBToLinear(c[0]),
		SRGBToLinear(c[1]),
		SRGBToLinear(c[2]),
		c[3],
	}
}

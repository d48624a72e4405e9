package color

import "math"

// sRGB8ToLinearLUT maps an sRGB byte to linear light.
var sRGB8ToLinearLUT [256]float64

// linearToSRGB8LUT maps linear light, quantized to 12 bits, to an sRGB byte.
var linearToSRGB8LUT [4096]uint8

func init() {
	for i := range sRGB8ToLinearLUT {
		sRGB8ToLinearLUT[i] = SRGBToLinear(float64(i) / 255)
	}
	for i := range linearToSRGB8LUT {
		linearToSRGB8LUT[i] = ToByte(LinearToSRGB(float64(i) / 4095))
	}
}

// SRGBToLinear converts an sRGB component in [0,1] to linear light.
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component in [0,1] to sRGB.
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

// ToLinear converts every component of c to linear light.
func ToLinear(c RGB) RGB {
	return RGB{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B)}
}

// ToSRGB converts every component of a linear color to sRGB.
func ToSRGB(c RGB) RGB {
	return RGB{R: LinearToSRGB(c.R), G: LinearToSRGB(c.G), B: LinearToSRGB(c.B)}
}

// SRGB8ToLinear converts an sRGB byte to linear light using a lookup table.
func SRGB8ToLinear(s uint8) float64 {
	return sRGB8ToLinearLUT[s]
}

// LinearToSRGB8 converts linear light to an sRGB byte using a lookup table.
// The input is clamped to [0,1].
func LinearToSRGB8(l float64) uint8 {
	i := int(clamp01(l)*4095 + 0.5)
	return linearToSRGB8LUT[min(i, 4095)]
}

// ToByte maps a component in [0,1] to [0,255] with rounding.
func ToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Package color provides the color space conversions used when sampling
// and compositing gradients: HSB to RGB, and sRGB to linear light.
package color

import "math"

// RGB is a color with components in [0,1].
// The components are sRGB-encoded unless stated otherwise.
type RGB struct {
	R, G, B float64
}

// HSBToRGB converts a hue in degrees and saturation and brightness in [0,1]
// to RGB. Hue wraps; saturation and brightness are clamped.
func HSBToRGB(h, s, v float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp01(s)
	v = clamp01(v)

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{R: r + m, G: g + m, B: b + m}
}

// RGBToHSB converts an RGB color to hue in degrees [0,360) and saturation
// and brightness in [0,1].
func RGBToHSB(c RGB) (h, s, v float64) {
	hi := math.Max(c.R, math.Max(c.G, c.B))
	lo := math.Min(c.R, math.Min(c.G, c.B))
	d := hi - lo

	v = hi
	if hi > 0 {
		s = d / hi
	}
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case c.R:
		h = 60 * math.Mod((c.G-c.B)/d, 6)
	case c.G:
		h = 60 * ((c.B-c.R)/d + 2)
	default:
		h = 60 * ((c.R-c.G)/d + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package grd

import (
	"fmt"
	"image/color"

	icolor "github.com/gogpu/grd/internal/color"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1] and is not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: icolor.ToByte(c.R),
		G: icolor.ToByte(c.G),
		B: icolor.ToByte(c.B),
		A: icolor.ToByte(c.A),
	}
}

// Hex formats the color as "#RRGGBB", or "#RRGGBBAA" when not opaque.
func (c RGBA) Hex() string {
	n := c.Color().(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Common colors
var (
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Transparent = RGBA{}
)

// ColorModel identifies how a stop color is stored in the file.
type ColorModel int

const (
	// ModelRGB colors carry red, green and blue in [0, 255] ("RGBC").
	ModelRGB ColorModel = iota
	// ModelHSB colors carry hue in degrees and saturation and brightness
	// in [0, 100] ("HSBC").
	ModelHSB
)

// String returns the descriptor class of the model.
func (m ColorModel) String() string {
	switch m {
	case ModelRGB:
		return classRGB
	case ModelHSB:
		return classHSB
	default:
		return fmt.Sprintf("ColorModel(%d)", int(m))
	}
}

// StopColor is a gradient stop color as stored in the file.
// Only the fields of the active Model are meaningful.
type StopColor struct {
	Model ColorModel

	R, G, B float64 // ModelRGB, each 0..255

	H    float64 // ModelHSB, degrees
	S, V float64 // ModelHSB, each 0..100
}

// RGBColor returns an RGB stop color with components in [0, 255].
func RGBColor(r, g, b float64) StopColor {
	return StopColor{Model: ModelRGB, R: r, G: g, B: b}
}

// HSBColor returns an HSB stop color: hue in degrees, saturation and
// brightness in [0, 100].
func HSBColor(h, s, v float64) StopColor {
	return StopColor{Model: ModelHSB, H: h, S: s, V: v}
}

// RGBA converts the stop color to RGBA with the given alpha in [0, 1].
func (c StopColor) RGBA(alpha float64) RGBA {
	var rgb icolor.RGB
	switch c.Model {
	case ModelHSB:
		rgb = icolor.HSBToRGB(c.H, c.S/100, c.V/100)
	default:
		rgb = icolor.RGB{R: clamp01(c.R / 255), G: clamp01(c.G / 255), B: clamp01(c.B / 255)}
	}
	return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: clamp01(alpha)}
}

// HSB returns the color in the HSB model: hue in degrees [0, 360),
// saturation and brightness in [0, 100]. HSB colors are returned as is.
func (c StopColor) HSB() StopColor {
	if c.Model == ModelHSB {
		return c
	}
	h, s, v := icolor.RGBToHSB(icolor.RGB{R: clamp01(c.R / 255), G: clamp01(c.G / 255), B: clamp01(c.B / 255)})
	return HSBColor(h, s*100, v*100)
}

// String formats the color in its own model.
func (c StopColor) String() string {
	if c.Model == ModelHSB {
		return fmt.Sprintf("hsb(%.1f, %.1f%%, %.1f%%)", c.H, c.S, c.V)
	}
	return fmt.Sprintf("rgb(%.0f, %.0f, %.0f)", c.R, c.G, c.B)
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package grd

import (
	"sort"

	icolor "github.com/gogpu/grd/internal/color"
)

// MaxLocation is the stop location that corresponds to the gradient's end.
// Locations run from 0 to MaxLocation.
const MaxLocation = 4096

// StopKind says where a color stop takes its color from.
type StopKind int

const (
	// StopUser stops carry their own color ("UsrS").
	StopUser StopKind = iota
	// StopForeground stops follow the editor's foreground color ("FrgC").
	StopForeground
	// StopBackground stops follow the editor's background color ("BckC").
	StopBackground
)

// String returns the descriptor enum value of the kind.
func (k StopKind) String() string {
	switch k {
	case StopForeground:
		return stopForeground
	case StopBackground:
		return stopBackground
	default:
		return stopUser
	}
}

// Stop is a color stop of a gradient.
type Stop struct {
	Location int       // 0..MaxLocation
	Midpoint int       // 0..100, position of the blend midpoint towards the next stop
	Kind     StopKind  // where the color comes from
	Color    StopColor // stored color
	Opacity  float64   // 0..100, interpolated from the transparency stops
}

// TransparencyStop is a control point of a gradient's opacity ramp.
type TransparencyStop struct {
	Location int     // 0..MaxLocation
	Midpoint int     // 0..100
	Opacity  float64 // 0..100
}

// Gradient is a named gradient definition read from a gradient file.
// A Gradient is not modified after Build returns it.
type Gradient struct {
	Name string

	// Smoothness is the interpolation smoothness in 0..MaxLocation ("Intr").
	Smoothness float64

	// Stops are the color stops in file order, each with its derived opacity.
	Stops []Stop

	// Transparency holds the opacity control points sorted by location.
	Transparency []TransparencyStop
}

// OpacityAt returns the opacity, in 0..100, at a stop location.
//
// stops must be sorted by location. The first stop at or after location is
// found by binary search. With none, the last stop's opacity applies; if it
// is the first stop, its own opacity applies; otherwise the opacity is
// interpolated linearly between it and its predecessor. With no stops at
// all the result is fully opaque.
func OpacityAt(stops []TransparencyStop, location int) float64 {
	if len(stops) == 0 {
		return 100
	}
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Location >= location
	})
	if idx >= len(stops) {
		return stops[len(stops)-1].Opacity
	}
	if idx == 0 {
		return stops[0].Opacity
	}

	prev, next := stops[idx-1], stops[idx]
	t := float64(location-prev.Location) / float64(next.Location-prev.Location)
	return prev.Opacity + t*(next.Opacity-prev.Opacity)
}

// ColorStop is a color at a normalized position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position, alpha from the stop opacity
}

// ColorStops returns the gradient's stops as normalized color stops sorted
// by offset. Foreground and background stops use black and white unless
// they carry a color.
func (g *Gradient) ColorStops() []ColorStop {
	out := make([]ColorStop, len(g.Stops))
	for i, s := range g.Stops {
		out[i] = ColorStop{
			Offset: float64(s.Location) / MaxLocation,
			Color:  s.Color.RGBA(s.Opacity / 100),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}

// ColorAt returns the gradient color at t in [0, 1]. Values outside the
// range take the nearest end color. Colors are blended in linear light.
func (g *Gradient) ColorAt(t float64) RGBA {
	return colorAtOffset(g.ColorStops(), t)
}

// colorAtOffset returns the interpolated color at a given offset of sorted stops.
func colorAtOffset(stops []ColorStop, t float64) RGBA {
	if len(stops) == 0 {
		return Transparent
	}
	if len(stops) == 1 {
		return stops[0].Color
	}

	t = clamp01(t)
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	stop1, stop2 := stops[idx-1], stops[idx]
	if stop2.Offset == stop1.Offset {
		return stop1.Color
	}
	localT := (t - stop1.Offset) / (stop2.Offset - stop1.Offset)
	return interpolateColorLinear(stop1.Color, stop2.Color, localT)
}

// interpolateColorLinear blends two sRGB colors in linear light.
// Alpha is blended directly.
func interpolateColorLinear(c1, c2 RGBA, t float64) RGBA {
	l1 := icolor.ToLinear(icolor.RGB{R: c1.R, G: c1.G, B: c1.B})
	l2 := icolor.ToLinear(icolor.RGB{R: c2.R, G: c2.G, B: c2.B})
	l := RGBA{R: l1.R, G: l1.G, B: l1.B, A: c1.A}.Lerp(RGBA{R: l2.R, G: l2.G, B: l2.B, A: c2.A}, t)
	mixed := icolor.ToSRGB(icolor.RGB{R: l.R, G: l.G, B: l.B})
	return RGBA{R: mixed.R, G: mixed.G, B: mixed.B, A: l.A}
}

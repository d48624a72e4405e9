// Package grd reads gradient libraries stored in the Photoshop gradient
// (.grd) file format.
//
// # Overview
//
// A gradient file is a 32-byte header followed by a tagged binary
// descriptor: a list of objects, one per gradient. Each gradient has a name,
// color stops (RGB or HSB, at locations 0..4096) and transparency stops.
// The descriptor layer lives in the descriptor sub-package; this package
// turns its records into [Gradient] values.
//
// # Quick Start
//
//	data, err := os.ReadFile("Metals.grd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gradients, err := grd.ReadAll(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range gradients {
//	    fmt.Println(g.Name, len(g.Stops))
//	}
//
// # Incremental reading
//
// [Reader] decodes one record per call to Next, so progress can be
// reported while a large library is read. [ParseAll] drives a Reader and
// hands each record to a callback. A record that decodes but is not a
// valid gradient produces an [ErrBuild] error for that record only; a
// malformed descriptor stops the whole read.
//
// # Opacity
//
// The file stores opacity separately from color. Each color stop's
// opacity is interpolated from the transparency stops that bracket its
// location; see [OpacityAt].
//
// # Rendering
//
// [Gradient.ColorAt] samples a gradient with colors blended in linear
// light. [RenderSwatch] draws a preview strip and [ScaleNearest] enlarges
// it without smoothing.
package grd

// Version is the current version of the library.
const Version = "0.1.0"

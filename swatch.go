package grd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	icolor "github.com/gogpu/grd/internal/color"
)

// ErrImageFormat is returned for image formats SaveImage cannot write.
var ErrImageFormat = errors.New("grd: unsupported image format")

// CheckerSize is the edge length, in pixels, of the checkerboard drawn
// behind translucent swatches.
const CheckerSize = 8

var (
	checkerLight = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	checkerDark  = color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
)

// RenderSwatch paints g from left to right into a width x height image.
// Translucent parts are composited over a checkerboard, so the result is
// opaque.
func RenderSwatch(g *Gradient, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	if width <= 0 || height <= 0 {
		return img
	}

	stops := g.ColorStops()
	for x := 0; x < width; x++ {
		t := (float64(x) + 0.5) / float64(width)
		if width == 1 {
			t = 0
		}
		c := colorAtOffset(stops, t)
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, over(c, checker(x, y)))
		}
	}
	return img
}

func checker(x, y int) color.NRGBA {
	if (x/CheckerSize+y/CheckerSize)%2 == 0 {
		return checkerLight
	}
	return checkerDark
}

// over composites c over an opaque background in linear light.
func over(c RGBA, bg color.NRGBA) color.NRGBA {
	a := clamp01(c.A)
	lc := icolor.ToLinear(icolor.RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)})
	mix := func(fg float64, b uint8) uint8 {
		return icolor.LinearToSRGB8(fg*a + icolor.SRGB8ToLinear(b)*(1-a))
	}
	return color.NRGBA{
		R: mix(lc.R, bg.R),
		G: mix(lc.G, bg.G),
		B: mix(lc.B, bg.B),
		A: 0xFF,
	}
}

// ScaleNearest enlarges src by an integer factor, replicating each pixel
// into a factor x factor block.
func ScaleNearest(src image.Image, factor int) *image.NRGBA {
	b := src.Bounds()
	factor = max(factor, 1)
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// EncodeImage writes img to w as "png", "bmp" or "tiff".
func EncodeImage(w io.Writer, format string, img image.Image) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w %q", ErrImageFormat, format)
	}
}

// SaveImage writes img to path in the format named by its extension.
func SaveImage(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no extension", ErrImageFormat, path)
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := EncodeImage(f, format, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

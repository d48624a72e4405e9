package grd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func solid(c StopColor, opacity float64) *Gradient {
	return &Gradient{Stops: []Stop{
		{Location: 0, Color: c, Opacity: opacity},
		{Location: MaxLocation, Color: c, Opacity: opacity},
	}}
}

func TestRenderSwatchOpaque(t *testing.T) {
	img := RenderSwatch(solid(RGBColor(255, 0, 0), 100), 32, 4)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	want := color.NRGBA{R: 0xFF, A: 0xFF}
	for _, p := range []image.Point{{0, 0}, {31, 3}, {9, 1}} {
		if got := img.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestRenderSwatchTransparentShowsChecker(t *testing.T) {
	img := RenderSwatch(solid(RGBColor(255, 0, 0), 0), 2*CheckerSize, 1)
	if got := img.NRGBAAt(0, 0); got != checkerLight {
		t.Errorf("light square = %v, want %v", got, checkerLight)
	}
	if got := img.NRGBAAt(CheckerSize, 0); got != checkerDark {
		t.Errorf("dark square = %v, want %v", got, checkerDark)
	}
}

func TestRenderSwatchRamp(t *testing.T) {
	g := &Gradient{Stops: []Stop{
		{Location: 0, Color: RGBColor(0, 0, 0), Opacity: 100},
		{Location: MaxLocation, Color: RGBColor(255, 255, 255), Opacity: 100},
	}}
	img := RenderSwatch(g, 64, 1)
	prev := -1
	for x := 0; x < 64; x++ {
		v := int(img.NRGBAAt(x, 0).R)
		if v < prev {
			t.Fatalf("ramp not monotonic at x=%d: %d < %d", x, v, prev)
		}
		prev = v
	}
}

func TestRenderSwatchEmpty(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-3, 5}} {
		img := RenderSwatch(solid(RGBColor(1, 2, 3), 100), size[0], size[1])
		if !img.Bounds().Empty() {
			t.Errorf("RenderSwatch(%d, %d) bounds = %v, want empty", size[0], size[1], img.Bounds())
		}
	}
}

func TestScaleNearest(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	src.SetNRGBA(0, 0, red)
	src.SetNRGBA(1, 0, blue)

	dst := ScaleNearest(src, 3)
	if b := dst.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			want := red
			if x >= 3 {
				want = blue
			}
			if got := dst.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if b := ScaleNearest(src, 0).Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("factor 0 bounds = %v, want source size", b)
	}
}

func TestEncodeImageUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeImage(&buf, "gif", image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrImageFormat) {
		t.Errorf("EncodeImage(gif) = %v, want ErrImageFormat", err)
	}
}

func TestSaveImageFormats(t *testing.T) {
	img := ScaleNearest(RenderSwatch(solid(RGBColor(0, 128, 255), 100), 8, 2), 2)
	dir := t.TempDir()

	for _, ext := range []string{"png", "bmp", "tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "swatch."+ext)
			if err := SaveImage(path, img); err != nil {
				t.Fatalf("SaveImage() error = %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			decoded, format, err := image.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if format != ext {
				t.Errorf("format = %q, want %q", format, ext)
			}
			if decoded.Bounds().Size() != img.Bounds().Size() {
				t.Errorf("size = %v, want %v", decoded.Bounds().Size(), img.Bounds().Size())
			}
			r, g, b, _ := decoded.At(0, 0).RGBA()
			// Green passes through linear light and may round by one.
			if r>>8 != 0 || g>>8 < 127 || g>>8 > 128 || b>>8 != 255 {
				t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestSaveImageRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.gif")
	err := SaveImage(path, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrImageFormat) {
		t.Fatalf("SaveImage(gif) = %v, want ErrImageFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("failed SaveImage left a file behind")
	}
	if err := SaveImage(filepath.Join(t.TempDir(), "noext"), image.NewNRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrImageFormat) {
		t.Errorf("SaveImage(noext) = %v", err)
	}
}

package optimizer

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

var twoThirds = float64(2000) / float64(3000)

func TestTargetDimensions(t *testing.T) {
	tests := []struct {
		name        string
		w, h, bound int
		want        Dimensions
	}{
		{"wide downscale", 4000, 2000, 2000, Dimensions{Width: 2000, Height: 1000}},
		{"small unchanged", 100, 100, 1920, Dimensions{Width: 100, Height: 100}},
		{"equal to bound", 1920, 1080, 1920, Dimensions{Width: 1920, Height: 1080}},
		{"tall narrow unchanged", 800, 5000, 1920, Dimensions{Width: 800, Height: 5000}},
		{"fractional height", 3000, 1000, 2000, Dimensions{Width: 2000, Height: 1000 * twoThirds}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetDimensions(tt.w, tt.h, tt.bound)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDimensions_SurfaceTruncates(t *testing.T) {
	d := TargetDimensions(3000, 1000, 2000)
	if d.Height <= 666 || d.Height >= 667 {
		t.Fatalf("height: got %v", d.Height)
	}
	if got := d.Surface(); got != image.Pt(2000, 666) {
		t.Errorf("surface: got %v, want (2000,666)", got)
	}
}

func TestEstimateSize(t *testing.T) {
	tests := []struct {
		length int
		want   int64
	}{
		{122, 75},  // 100 * 3/4
		{24, 2},    // 1.5 rounds up
		{25, 2},    // 2.25
		{26, 3},    // 3
		{22, 0},
		{1022, 750},
	}
	for _, tt := range tests {
		s := strings.Repeat("A", tt.length)
		if got := EstimateSize(s); got != tt.want {
			t.Errorf("len %d: got %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestRender_ZeroAreaSurface(t *testing.T) {
	img := gradient(10, 10)
	for _, sz := range []image.Point{{0, 10}, {10, 0}} {
		if _, err := Render(img, sz.X, sz.Y); !errors.Is(err, ErrContextUnavailable) {
			t.Errorf("%v: got %v, want ErrContextUnavailable", sz, err)
		}
	}
}

func TestRender_TransparentBecomesBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4)) // fully transparent
	out, err := Render(img, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	c := out.NRGBAAt(1, 1)
	if c != (color.NRGBA{R: 0, G: 0, B: 0, A: 255}) {
		t.Errorf("pixel: got %+v, want opaque black", c)
	}
}

func TestRender_KeepsOpaquePixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	out, err := Render(img, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c := out.NRGBAAt(0, 0); c.R != 200 || c.A != 255 {
		t.Errorf("pixel: got %+v", c)
	}
}

func TestRender_OffsetBounds(t *testing.T) {
	base := gradient(20, 20)
	sub := base.SubImage(image.Rect(5, 5, 15, 15))
	out, err := Render(sub, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("bounds: got %v", out.Bounds())
	}
}

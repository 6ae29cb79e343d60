package optimizer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/adn360mx/imgopt/internal/encoder"
	"github.com/disintegration/imaging"
)

// HeaderAllowance is subtracted from the encoded string length before
// reversing the base64 expansion in EstimateSize. It is applied uniformly,
// whatever the actual data URL prefix length.
const HeaderAllowance = 22

var (
	ErrContextUnavailable = errors.New("drawing surface unavailable")
	ErrEncodeFailed       = errors.New("image encode failed")
)

// Dimensions are the target output dimensions. Height keeps the fractional
// part of the aspect-preserving scale; the drawing surface truncates it.
type Dimensions struct {
	Width  int     `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TargetDimensions applies the max-width bound. Images wider than the bound
// are scaled uniformly so the width equals the bound; narrower images keep
// their dimensions. Nothing is ever upscaled.
func TargetDimensions(width, height, maxWidth int) Dimensions {
	if width > maxWidth {
		ratio := float64(maxWidth) / float64(width)
		return Dimensions{Width: maxWidth, Height: float64(height) * ratio}
	}
	return Dimensions{Width: width, Height: float64(height)}
}

// Surface returns the pixel size of the drawing surface for d.
func (d Dimensions) Surface() image.Point {
	return image.Pt(d.Width, int(d.Height))
}

// Result is one transformed image.
type Result struct {
	Encoded       string     // data:image/jpeg;base64,...
	Data          []byte     // raw JPEG bytes behind Encoded
	EstimatedSize int64      // EstimateSize(Encoded)
	Source        Info       // decoded original
	Dimensions    Dimensions // target dimensions
	Surface       image.Point
	Quality       int
}

// Render draws img onto a w×h surface. Transparent areas end up black,
// matching a canvas exported as JPEG.
func Render(img image.Image, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d surface", ErrContextUnavailable, w, h)
	}

	var scaled *image.NRGBA
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		scaled = imaging.Clone(img)
	} else {
		scaled = imaging.Resize(img, w, h, imaging.Linear)
	}

	surface := imaging.New(w, h, color.Black)
	return imaging.Overlay(surface, scaled, image.Pt(0, 0), 1.0), nil
}

// Transform resizes and re-encodes a decoded bitmap. It has no side effects.
func Transform(img image.Image, src Info, maxWidth, quality int, enc encoder.Encoder) (*Result, error) {
	dims := TargetDimensions(src.Width, src.Height, maxWidth)
	surface := dims.Surface()

	rendered, err := Render(img, surface.X, surface.Y)
	if err != nil {
		return nil, err
	}

	data, err := enc.Encode(rendered, quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	encoded := encoder.EncodeDataURL(enc.MediaType(), data)
	return &Result{
		Encoded:       encoded,
		Data:          data,
		EstimatedSize: EstimateSize(encoded),
		Source:        src,
		Dimensions:    dims,
		Surface:       surface,
		Quality:       quality,
	}, nil
}

// EstimateSize approximates the byte length behind a data URL:
// round((len(encoded) - 22) * 3 / 4), halves rounded up.
func EstimateSize(encoded string) int64 {
	return int64(math.Floor(float64(len(encoded)-HeaderAllowance)*3/4 + 0.5))
}

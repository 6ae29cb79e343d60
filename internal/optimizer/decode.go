package optimizer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/adn360mx/imgopt/internal/encoder"
	"github.com/disintegration/imageorient"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrDecodeFailed = errors.New("image decode failed")

// Info describes a decoded bitmap.
type Info struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Decode loads encoded image bytes into a bitmap. EXIF orientation is
// applied, so width and height are the displayed (intrinsic) dimensions.
// Images whose pixel area exceeds maxPixels are rejected from the header
// alone, before any bitmap is allocated. maxPixels <= 0 disables the check.
func Decode(data []byte, maxPixels int64) (image.Image, Info, error) {
	if len(data) == 0 {
		return nil, Info{}, fmt.Errorf("%w: empty input", ErrDecodeFailed)
	}
	if err := checkArea(data, maxPixels); err != nil {
		return nil, Info{}, err
	}
	img, format, err := imageorient.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	b := img.Bounds()
	return img, Info{Width: b.Dx(), Height: b.Dy(), Format: FormatName(format)}, nil
}

// checkArea reads only the image header.
func checkArea(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if area := int64(cfg.Width) * int64(cfg.Height); area > maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
			ErrContextUnavailable, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// DecodeDataURL decodes a data URL produced at upload time.
func DecodeDataURL(encoded string, maxPixels int64) (image.Image, Info, error) {
	_, data, err := encoder.DecodeDataURL(encoded)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return Decode(data, maxPixels)
}

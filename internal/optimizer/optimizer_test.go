package optimizer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/adn360mx/imgopt/internal/encoder"
	"github.com/adn360mx/imgopt/internal/profile"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255,
			})
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return encoder.EncodeDataURL("image/png", buf.Bytes())
}

func TestOptimize_DownscalesWideImage(t *testing.T) {
	o := New(Config{})
	original := pngDataURL(t, image.NewNRGBA(image.Rect(0, 0, 4000, 2000)))

	res, err := o.Optimize(context.Background(), original, profile.Params{Quality: 80, MaxWidth: 2000})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if res.Dimensions.Width != 2000 || res.Dimensions.Height != 1000 {
		t.Errorf("dimensions: got %+v, want 2000x1000", res.Dimensions)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if cfg.Width != 2000 || cfg.Height != 1000 {
		t.Errorf("encoded size: got %dx%d", cfg.Width, cfg.Height)
	}
	if !strings.HasPrefix(res.Encoded, "data:image/jpeg;base64,") {
		t.Errorf("encoded prefix: %q", res.Encoded[:30])
	}
	if res.EstimatedSize != EstimateSize(res.Encoded) {
		t.Errorf("estimated size %d does not match formula", res.EstimatedSize)
	}
}

func TestOptimize_NeverUpscales(t *testing.T) {
	o := New(Config{})
	original := pngDataURL(t, gradient(100, 100))

	res, err := o.Optimize(context.Background(), original, profile.Params{Quality: 80, MaxWidth: 1920})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if res.Surface != image.Pt(100, 100) {
		t.Errorf("surface: got %v, want 100x100", res.Surface)
	}
	if res.Dimensions.Width != 100 || res.Dimensions.Height != 100 {
		t.Errorf("dimensions: got %+v", res.Dimensions)
	}
}

func TestOptimize_DecodeFailed(t *testing.T) {
	o := New(Config{})
	original := encoder.EncodeDataURL("image/png", []byte("definitely not a png"))

	res, err := o.Optimize(context.Background(), original, profile.Defaults())
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("got %v, want ErrDecodeFailed", err)
	}
	if res != nil {
		t.Error("result must be absent on failure")
	}
}

func TestOptimize_MalformedDataURL(t *testing.T) {
	o := New(Config{})
	if _, err := o.Optimize(context.Background(), "not a data url", profile.Defaults()); !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("got %v, want ErrDecodeFailed", err)
	}
}

func TestOptimize_PixelLimit(t *testing.T) {
	o := New(Config{MaxPixels: 100 * 100})
	if _, err := o.Optimize(context.Background(), pngDataURL(t, gradient(101, 100)), profile.Defaults()); !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("got %v, want ErrContextUnavailable", err)
	}
	if _, err := o.Optimize(context.Background(), pngDataURL(t, gradient(100, 100)), profile.Defaults()); err != nil {
		t.Fatalf("at the limit: %v", err)
	}
}

func TestOptimize_InvalidParams(t *testing.T) {
	o := New(Config{})
	original := pngDataURL(t, gradient(10, 10))
	_, err := o.Optimize(context.Background(), original, profile.Params{Quality: 0, MaxWidth: 1920})
	if !errors.Is(err, profile.ErrQualityRange) {
		t.Fatalf("got %v, want ErrQualityRange", err)
	}
}

func TestOptimize_CancelledContext(t *testing.T) {
	o := New(Config{})
	original := pngDataURL(t, gradient(10, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Optimize(ctx, original, profile.Defaults()); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestStart_DeliversOnceAndCloses(t *testing.T) {
	o := New(Config{})
	ch := o.Start(context.Background(), pngDataURL(t, gradient(20, 10)), profile.Defaults())

	out, ok := <-ch
	if !ok {
		t.Fatal("channel closed without outcome")
	}
	if out.Err != nil || out.Result == nil {
		t.Fatalf("outcome: %+v", out)
	}
	if _, ok := <-ch; ok {
		t.Error("channel delivered a second outcome")
	}
}

type failingEncoder struct{ encoder.JPEGEncoder }

func (failingEncoder) Encode(image.Image, int) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestOptimize_EncodeFailed(t *testing.T) {
	o := New(Config{Encoder: &failingEncoder{}})
	_, err := o.Optimize(context.Background(), pngDataURL(t, gradient(10, 10)), profile.Defaults())
	if !errors.Is(err, ErrEncodeFailed) {
		t.Fatalf("got %v, want ErrEncodeFailed", err)
	}
}

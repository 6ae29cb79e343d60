package optimizer

import (
	"context"
	"fmt"

	"github.com/adn360mx/imgopt/internal/encoder"
	"github.com/adn360mx/imgopt/internal/profile"
	"go.uber.org/zap"
)

// Config holds the collaborators of an Optimizer.
type Config struct {
	Encoder   encoder.Encoder // defaults to JPEG
	Logger    *zap.Logger     // defaults to a no-op logger
	MaxPixels int64           // largest accepted source area, 0 = no limit
}

// Optimizer turns an uploaded original into a recompressed JPEG.
type Optimizer struct {
	enc       encoder.Encoder
	log       *zap.Logger
	maxPixels int64
}

// Outcome is the completion of an asynchronous transform.
type Outcome struct {
	Result *Result
	Err    error
}

// New creates a configured optimizer.
func New(cfg Config) *Optimizer {
	if cfg.Encoder == nil {
		cfg.Encoder = &encoder.JPEGEncoder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Optimizer{enc: cfg.Encoder, log: cfg.Logger, maxPixels: cfg.MaxPixels}
}

// Encoder returns the output encoder.
func (o *Optimizer) Encoder() encoder.Encoder { return o.enc }

// Start runs the transform in the background. The returned channel
// receives exactly one Outcome and is then closed.
func (o *Optimizer) Start(ctx context.Context, original string, p profile.Params) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := o.run(ctx, original, p)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Optimize runs the transform and waits for it.
func (o *Optimizer) Optimize(ctx context.Context, original string, p profile.Params) (*Result, error) {
	select {
	case out := <-o.Start(ctx, original, p):
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Optimizer) run(ctx context.Context, original string, p profile.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Decode and measure.
	img, info, err := DecodeDataURL(original, o.maxPixels)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: Resize, render, encode.
	res, err := Transform(img, info, p.MaxWidth, p.Quality, o.enc)
	if err != nil {
		o.log.Warn("transform failed",
			zap.Int("width", info.Width),
			zap.Int("height", info.Height),
			zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transform abandoned: %w", err)
	}

	o.log.Debug("transform complete",
		zap.String("format", info.Format),
		zap.Int("src_width", info.Width),
		zap.Int("src_height", info.Height),
		zap.Int("dst_width", res.Surface.X),
		zap.Int("dst_height", res.Surface.Y),
		zap.Int("quality", p.Quality),
		zap.Int64("estimated_size", res.EstimatedSize))

	return res, nil
}

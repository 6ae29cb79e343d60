package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/adn360mx/imgopt/internal/hasher"
	"github.com/adn360mx/imgopt/internal/optimizer"
)

// heightTolerance absorbs float formatting of the scaled height.
const heightTolerance = 1e-6

// Validate checks a report against its invariants and the files it
// references. baseDir is the directory holding the report.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}
	if err := r.Params.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("params: %v", err))
	}

	o := r.Original
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Sprintf("original %q: invalid dimensions %dx%d", o.Name, o.Width, o.Height))
	}
	if o.Size <= 0 {
		errs = append(errs, fmt.Sprintf("original %q: invalid size %d", o.Name, o.Size))
	}

	v := r.Optimized
	if v == nil {
		if r.ReductionPercent != nil {
			errs = append(errs, "reduction_percent set without an optimized image")
		}
		return errs
	}

	// Dimension invariants.
	if o.Width > 0 && r.Params.MaxWidth > 0 {
		want := optimizer.TargetDimensions(o.Width, o.Height, r.Params.MaxWidth)
		if v.Width != want.Width {
			errs = append(errs, fmt.Sprintf("optimized width %d, expected %d", v.Width, want.Width))
		}
		if math.Abs(v.Height-want.Height) > heightTolerance {
			errs = append(errs, fmt.Sprintf("optimized height %.4f, expected %.4f", v.Height, want.Height))
		}
		if s := want.Surface(); v.SurfaceHeight != s.Y {
			errs = append(errs, fmt.Sprintf("surface height %d, expected %d", v.SurfaceHeight, s.Y))
		}
	}
	if v.Width > o.Width {
		errs = append(errs, fmt.Sprintf("optimized width %d exceeds original %d", v.Width, o.Width))
	}

	if r.ReductionPercent != nil && v.EstimatedSize > 0 {
		if want := ReductionPercent(o.Size, v.EstimatedSize); *r.ReductionPercent != want {
			errs = append(errs, fmt.Sprintf("reduction_percent %d, expected %d", *r.ReductionPercent, want))
		}
	}

	if v.Path == "" {
		return append(errs, "optimized: missing path")
	}

	// Check file exists and matches.
	fullPath := filepath.Join(baseDir, v.Path)
	f, err := os.Open(fullPath)
	if err != nil {
		return append(errs, fmt.Sprintf("optimized: file not found: %s", v.Path))
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && v.Size > 0 && info.Size() != v.Size {
		errs = append(errs, fmt.Sprintf("optimized: size mismatch: report=%d, disk=%d", v.Size, info.Size()))
	}
	if v.Hash != "" {
		sum, err := hasher.ContentHashReader(f, len(v.Hash))
		if err != nil {
			errs = append(errs, fmt.Sprintf("optimized: hash %s: %v", v.Path, err))
		} else if sum != v.Hash {
			errs = append(errs, fmt.Sprintf("optimized: hash mismatch: report=%s, disk=%s", v.Hash, sum))
		}
	}

	return errs
}

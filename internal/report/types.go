package report

import "github.com/adn360mx/imgopt/internal/profile"

// Report is the record of one optimize run.
type Report struct {
	Version          int            `json:"version" yaml:"version"`
	GeneratedAt      string         `json:"generated_at" yaml:"generated_at"`
	Profile          string         `json:"profile" yaml:"profile"`
	Params           profile.Params `json:"params" yaml:"params"`
	Original         OriginalInfo   `json:"original" yaml:"original"`
	Optimized        *OptimizedInfo `json:"optimized,omitempty" yaml:"optimized,omitempty"`
	ReductionPercent *int           `json:"reduction_percent,omitempty" yaml:"reduction_percent,omitempty"`
}

// OriginalInfo holds metadata about the uploaded image.
type OriginalInfo struct {
	Name   string `json:"name" yaml:"name"`
	Format string `json:"format" yaml:"format"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Size   int64  `json:"size" yaml:"size"` // exact bytes
}

// OptimizedInfo describes the recompressed JPEG.
type OptimizedInfo struct {
	Path          string  `json:"path" yaml:"path"` // relative to the report
	Width         int     `json:"width" yaml:"width"`
	Height        float64 `json:"height" yaml:"height"`                 // unrounded scaled height
	SurfaceHeight int     `json:"surface_height" yaml:"surface_height"` // pixel rows actually encoded
	EstimatedSize int64   `json:"estimated_size" yaml:"estimated_size"` // from the data URL length
	Size          int64   `json:"size" yaml:"size"`                     // bytes on disk
	Hash          string  `json:"hash" yaml:"hash"`                     // 16 hex chars of xxhash64
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// New creates an empty report with defaults.
func New(profileName string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
	}
}

// SetOptimized records the optimized output and derives the reduction.
func (r *Report) SetOptimized(o OptimizedInfo) {
	r.Optimized = &o
	if o.EstimatedSize > 0 {
		pct := ReductionPercent(r.Original.Size, o.EstimatedSize)
		r.ReductionPercent = &pct
	}
}

// FormatFor picks the output format from an explicit flag or the file
// extension; JSON is the default.
func FormatFor(path, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Write serializes the report to path.
func Write(r *Report, path, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a JSON or YAML report. YAML is tried when the file
// extension says so.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if FormatFor(path, "") == FormatYAML {
		err = yaml.Unmarshal(data, &r)
	} else {
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

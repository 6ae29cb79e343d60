package profile

import (
	"errors"
	"fmt"
	"sort"
)

// Parameter bounds exposed by the quality and max-width sliders.
const (
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 80

	MinMaxWidth     = 100
	MaxMaxWidth     = 3840
	MaxWidthStep    = 100
	DefaultMaxWidth = 1920

	DefaultName = "balanced"
)

var (
	ErrQualityRange  = errors.New("quality out of range")
	ErrMaxWidthRange = errors.New("max width out of range")
)

// Params are the user-adjustable transform parameters.
type Params struct {
	Quality  int `json:"quality" yaml:"quality"`     // JPEG quality 1-100
	MaxWidth int `json:"max_width" yaml:"max_width"` // width bound in pixels
}

// Profile is a named set of default parameters.
type Profile struct {
	Name string
	Params
}

// Built-in profiles.
var profiles = map[string]Profile{
	"balanced": {
		Name:   "balanced",
		Params: Params{Quality: DefaultQuality, MaxWidth: DefaultMaxWidth},
	},
	"hq": {
		Name:   "hq",
		Params: Params{Quality: 92, MaxWidth: MaxMaxWidth},
	},
	"compact": {
		Name:   "compact",
		Params: Params{Quality: 60, MaxWidth: 1280},
	},
	"thumbnail": {
		Name:   "thumbnail",
		Params: Params{Quality: 50, MaxWidth: 400},
	},
}

// Get returns a profile by name. Falls back to balanced if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the slider defaults.
func Defaults() Params {
	return profiles[DefaultName].Params
}

// Validate checks both parameters against the slider bounds.
func (p Params) Validate() error {
	if p.Quality < MinQuality || p.Quality > MaxQuality {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrQualityRange, p.Quality, MinQuality, MaxQuality)
	}
	if p.MaxWidth < MinMaxWidth || p.MaxWidth > MaxMaxWidth {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrMaxWidthRange, p.MaxWidth, MinMaxWidth, MaxMaxWidth)
	}
	return nil
}

// Override returns p with any non-zero field of o taking precedence.
// Out-of-range values are kept so Validate can reject them.
func (p Params) Override(o Params) Params {
	if o.Quality != 0 {
		p.Quality = o.Quality
	}
	if o.MaxWidth != 0 {
		p.MaxWidth = o.MaxWidth
	}
	return p
}

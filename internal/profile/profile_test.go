package profile

import (
	"errors"
	"testing"
)

func TestGet_Known(t *testing.T) {
	p := Get("compact")
	if p.Name != "compact" || p.Quality != 60 || p.MaxWidth != 1280 {
		t.Errorf("compact: got %+v", p)
	}
}

func TestGet_UnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q, want requested name preserved", p.Name)
	}
	if p.Params != Defaults() {
		t.Errorf("params: got %+v, want %+v", p.Params, Defaults())
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Quality != 80 || d.MaxWidth != 1920 {
		t.Errorf("defaults: got %+v", d)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"defaults", Params{Quality: 80, MaxWidth: 1920}, nil},
		{"lower bounds", Params{Quality: 1, MaxWidth: 100}, nil},
		{"upper bounds", Params{Quality: 100, MaxWidth: 3840}, nil},
		{"quality zero", Params{Quality: 0, MaxWidth: 1920}, ErrQualityRange},
		{"quality high", Params{Quality: 101, MaxWidth: 1920}, ErrQualityRange},
		{"width low", Params{Quality: 80, MaxWidth: 99}, ErrMaxWidthRange},
		{"width high", Params{Quality: 80, MaxWidth: 3841}, ErrMaxWidthRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	p := Defaults().Override(Params{Quality: 55})
	if p.Quality != 55 || p.MaxWidth != DefaultMaxWidth {
		t.Errorf("override: got %+v", p)
	}
	if err := Defaults().Override(Params{MaxWidth: -1}).Validate(); err == nil {
		t.Error("negative override should fail validation")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("names: got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
	if !Known("hq") || Known("nope") {
		t.Error("Known mismatch")
	}
}

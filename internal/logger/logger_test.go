package logger

import "testing"

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := New(lvl, false)
		if err != nil {
			t.Fatalf("%s: %v", lvl, err)
		}
		if got := l.Level().String(); got != lvl {
			t.Errorf("level: got %s, want %s", got, lvl)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Error("expected error for invalid level")
	}
}

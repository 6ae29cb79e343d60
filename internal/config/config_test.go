package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
	if cfg.App.MaxUploadSize != 50*1024*1024 {
		t.Errorf("max upload: got %d", cfg.App.MaxUploadSize)
	}
	if cfg.App.MaxPixels != 40_000_000 {
		t.Errorf("max pixels: got %d", cfg.App.MaxPixels)
	}
	if cfg.App.SessionTTL != 30*time.Minute {
		t.Errorf("ttl: got %v", cfg.App.SessionTTL)
	}
	if p := cfg.App.Params(); p.Quality != 80 || p.MaxWidth != 1920 {
		t.Errorf("params: got %+v", p)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMGOPT_SERVER_PORT", "9999")
	t.Setenv("IMGOPT_APP_PROFILE", "compact")
	t.Setenv("IMGOPT_APP_SESSION_TTL", "5m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port: got %s", cfg.Server.Port)
	}
	if cfg.App.Profile != "compact" || cfg.App.Params().MaxWidth != 1280 {
		t.Errorf("profile: got %s", cfg.App.Profile)
	}
	if cfg.App.SessionTTL != 5*time.Minute {
		t.Errorf("ttl: got %v", cfg.App.SessionTTL)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgopt.yaml")
	content := "server:\n  host: 0.0.0.0\n  port: \"3000\"\napp:\n  profile: hq\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:3000" || cfg.App.Profile != "hq" || cfg.Log.Level != "debug" {
		t.Errorf("config: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_UnknownProfile(t *testing.T) {
	t.Setenv("IMGOPT_APP_PROFILE", "ultra")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoad_InvalidMaxPixels(t *testing.T) {
	t.Setenv("IMGOPT_APP_MAX_PIXELS", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected error for zero max_pixels")
	}
}

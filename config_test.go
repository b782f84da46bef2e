package mdstream

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultStyleConfig(t *testing.T) {
	cfg := DefaultStyleConfig()
	if cfg.FontSize != 14 {
		t.Fatalf("font size default is %v, want 14", cfg.FontSize)
	}
	if cfg.Theme != "default" {
		t.Fatalf("theme default is %q, want %q", cfg.Theme, "default")
	}
	if cfg.Width != 80 {
		t.Fatalf("width default is %d, want 80", cfg.Width)
	}
	if cfg.RevealInterval != 2*time.Millisecond {
		t.Fatalf("reveal interval default is %v, want 2ms", cfg.RevealInterval)
	}
	if cfg.DrainWindow != 10*time.Second {
		t.Fatalf("drain window default is %v, want 10s", cfg.DrainWindow)
	}
}

func TestLoadStyleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	data := "theme: dracula\nwidth: 100\nreveal_interval: 5ms\nfont_family: serif\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadStyleConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "dracula" {
		t.Fatalf("theme is %q, want dracula", cfg.Theme)
	}
	if cfg.Width != 100 {
		t.Fatalf("width is %d, want 100", cfg.Width)
	}
	if cfg.RevealInterval != 5*time.Millisecond {
		t.Fatalf("reveal interval is %v, want 5ms", cfg.RevealInterval)
	}
	if cfg.FontFamily != "serif" {
		t.Fatalf("font family is %q, want serif", cfg.FontFamily)
	}
	// Unset fields keep their defaults.
	if cfg.FontSize != 14 {
		t.Fatalf("font size is %v, want default 14", cfg.FontSize)
	}
	if cfg.DrainWindow != 10*time.Second {
		t.Fatalf("drain window is %v, want default 10s", cfg.DrainWindow)
	}
}

func TestLoadStyleConfigUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	if err := os.WriteFile(path, []byte("theme: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStyleConfig(path); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestLoadStyleConfigMissingFile(t *testing.T) {
	if _, err := LoadStyleConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStyleConfigRevealOptions(t *testing.T) {
	cfg := DefaultStyleConfig()
	cfg.RevealInterval = 7 * time.Millisecond
	cfg.DrainWindow = 3 * time.Second
	r := NewRevealer(cfg.RevealOptions()...)
	if r.interval != 7*time.Millisecond {
		t.Fatalf("interval is %v, want 7ms", r.interval)
	}
	if r.drain != 3*time.Second {
		t.Fatalf("drain is %v, want 3s", r.drain)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Driver != "robotgo" {
		t.Errorf("Driver = %q, want robotgo", cfg.Driver)
	}
	if cfg.Tolerance != 10 {
		t.Errorf("Tolerance = %d, want 10", cfg.Tolerance)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
}

func TestParseMergesOverDefaults(t *testing.T) {
	doc := `
driver: chromedp
tolerance: 25
pollInterval: 250ms
browser:
  targetUrl: https://game.example.com
  headless: true
  viewportWidth: 1920
logging:
  maxBackups: 3
  compress: false
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Driver != "chromedp" {
		t.Errorf("Driver = %q, want chromedp", cfg.Driver)
	}
	if cfg.Tolerance != 25 {
		t.Errorf("Tolerance = %d, want 25", cfg.Tolerance)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.Browser.TargetURL != "https://game.example.com" {
		t.Errorf("TargetURL = %q", cfg.Browser.TargetURL)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless = false, want true")
	}
	if cfg.Browser.ViewportWidth != 1920 {
		t.Errorf("ViewportWidth = %d, want 1920", cfg.Browser.ViewportWidth)
	}
	// Unspecified fields keep their defaults.
	if cfg.Browser.ViewportHeight != 720 {
		t.Errorf("ViewportHeight = %d, want default 720", cfg.Browser.ViewportHeight)
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("MaxBackups = %d, want 3", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.Compress {
		t.Error("Compress = true, want false")
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("MaxSizeMB = %d, want default 50", cfg.Logging.MaxSizeMB)
	}
}

func TestParseZeroValueOverrides(t *testing.T) {
	// tolerance: 0 is a deliberate setting, not an omission.
	cfg, err := Parse([]byte("tolerance: 0\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Tolerance != 0 {
		t.Errorf("Tolerance = %d, want 0", cfg.Tolerance)
	}
}

func TestParseEmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Driver != "robotgo" || cfg.Tolerance != 10 {
		t.Errorf("empty document altered defaults: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "driver: [unterminated"},
		{"bad duration", "pollInterval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse() = nil error, want error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte("driver: nop\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Driver != "nop" {
		t.Errorf("Driver = %q, want nop", cfg.Driver)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) = nil error, want error")
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
resize:
  max_width: 800
autosave:
  delay: 250ms
display:
  cell_width: 10
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Resize.MaxWidth != 800 || cfg.Resize.MinWidth != 50 {
		t.Fatalf("resize=%+v", cfg.Resize)
	}
	if cfg.Autosave.Delay != 250*time.Millisecond || !cfg.Autosave.Enabled {
		t.Fatalf("autosave=%+v", cfg.Autosave)
	}
	if cfg.Display.CellWidth != 10 || cfg.Display.CellHeight != 16 {
		t.Fatalf("display=%+v", cfg.Display)
	}
	if got := cfg.Display.FrameInterval(); got != time.Second/60 {
		t.Fatalf("FrameInterval=%v", got)
	}
}

func TestParse_EmptyDocumentIsDefault(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg=%+v, want defaults", cfg)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	if _, err := Parse(strings.NewReader("resize:\n  max_widht: 10\n")); err == nil {
		t.Fatalf("unknown key accepted")
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"max below min", "resize:\n  min_width: 100\n  max_width: 60\n"},
		{"negative max", "resize:\n  max_width: -1\n"},
		{"negative handle", "resize:\n  handle_size: -2\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"fps too high", "display:\n  fps: 1000\n"},
		{"negative backups", "logging:\n  max_backups: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err=%v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidate_NamesYAMLKey(t *testing.T) {
	cfg := Default()
	cfg.Resize.HandleSize = -2
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "resize.handle_size") {
		t.Fatalf("err=%v, want resize.handle_size", err)
	}
}

func TestParse_EnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	cfg, err := Parse(strings.NewReader("logging:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level=%q, want debug", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("editor:\n  sanitize: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Editor.Sanitize {
		t.Fatalf("sanitize not loaded")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want ErrNotExist", err)
	}

	chdirForTest(t, dir)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if cfg.Editor.Sanitize {
		t.Fatalf("default load picked up a file that does not exist")
	}
}

// chdirForTest changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}

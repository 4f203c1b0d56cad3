// # internal/core/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mainseq.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
version = 1

[paths]
project_root = "/srv/repo"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.ProjectRoot != "/srv/repo" {
		t.Errorf("project_root = %q", cfg.Paths.ProjectRoot)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("default workers = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("default debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Source.Mode != "worktree" {
		t.Errorf("default source mode = %q", cfg.Source.Mode)
	}
	if len(cfg.Output.Formats) != 1 || cfg.Output.Formats[0] != "json" {
		t.Errorf("default formats = %v", cfg.Output.Formats)
	}
}

func TestLoadRejectsBadSourceMode(t *testing.T) {
	path := writeConfig(t, `
version = 1

[source]
mode = "ftp"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("bad source mode accepted")
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, `
version = 1

[output]
formats = ["json", "xml"]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown output format accepted")
	}
}

func TestLoadRejectsBadExtension(t *testing.T) {
	path := writeConfig(t, `
version = 1

[analysis]
extensions = ["py"]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("extension without dot accepted")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := validateVersion(cfg); err != nil {
		t.Error(err)
	}
	if err := validateSource(cfg); err != nil {
		t.Error(err)
	}
	if err := validateOutput(cfg); err != nil {
		t.Error(err)
	}
}

// # internal/core/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version  int      `toml:"version"`
	Paths    Paths    `toml:"paths"`
	Source   Source   `toml:"source"`
	Exclude  Exclude  `toml:"exclude"`
	Analysis Analysis `toml:"analysis"`
	DB       Database `toml:"db"`
	Watch    Watch    `toml:"watch"`
	Output   Output   `toml:"output"`
	Observe  Observe  `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	OutputDir   string `toml:"output_dir"`
	DatabaseDir string `toml:"database_dir"`
}

// Source selects where file content comes from: the working tree, or the
// tracked blobs of the current commit.
type Source struct {
	Mode string `toml:"mode"` // "worktree" or "git"
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	Workers      int      `toml:"workers"`
	IncludeTests bool     `toml:"include_tests"`
	Extensions   []string `toml:"extensions"` // empty means every supported extension
	MaxFileSize  int64    `toml:"max_file_size"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	ProjectKey  string        `toml:"project_key"`
}

type Watch struct {
	Enabled       bool          `toml:"enabled"`
	Debounce      time.Duration `toml:"debounce"`
	RescansPerSec float64       `toml:"rescans_per_sec"`
}

type Output struct {
	Formats []string `toml:"formats"` // json, yaml, markdown, html
}

type Observe struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateSource(&cfg); err != nil {
		return nil, err
	}
	if err := validateAnalysis(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		cfg.Paths.ProjectRoot = "."
	}
	if strings.TrimSpace(cfg.Paths.OutputDir) == "" {
		cfg.Paths.OutputDir = "reports"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data"
	}

	if strings.TrimSpace(cfg.Source.Mode) == "" {
		cfg.Source.Mode = "worktree"
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "vendor", "target", "__pycache__"}
	}

	if cfg.Analysis.Workers <= 0 {
		cfg.Analysis.Workers = 4
	}
	if cfg.Analysis.MaxFileSize <= 0 {
		cfg.Analysis.MaxFileSize = 2 << 20
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSec <= 0 {
		cfg.Watch.RescansPerSec = 1
	}

	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"json"}
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 exists", cfg.Version)
	}
	return nil
}

func validateSource(cfg *Config) error {
	switch cfg.Source.Mode {
	case "worktree", "git":
		return nil
	default:
		return fmt.Errorf("source mode must be worktree or git, got %q", cfg.Source.Mode)
	}
}

func validateAnalysis(cfg *Config) error {
	if cfg.Analysis.Workers > 256 {
		return fmt.Errorf("workers %d is unreasonably high", cfg.Analysis.Workers)
	}
	for _, ext := range cfg.Analysis.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	for _, format := range cfg.Output.Formats {
		switch format {
		case "json", "yaml", "markdown", "html":
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}
	return nil
}

// # internal/core/app/scanner.go
package app

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"mainseq/internal/core/config"
	"mainseq/internal/engine/token"
)

// Scanner enumerates the source files an analysis run should cover. It
// applies the configured exclude globs, the extension allowlist and the
// test-file filter so both worktree walks and git listings go through
// the same rules.
type Scanner struct {
	root         string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	extensions   map[string]bool
	includeTests bool
	maxFileSize  int64
}

func NewScanner(cfg *config.Config) (*Scanner, error) {
	s := &Scanner{
		root:         cfg.Paths.ProjectRoot,
		extensions:   make(map[string]bool),
		includeTests: cfg.Analysis.IncludeTests,
		maxFileSize:  cfg.Analysis.MaxFileSize,
	}

	exts := cfg.Analysis.Extensions
	if len(exts) == 0 {
		exts = token.SupportedExtensions()
	}
	for _, ext := range exts {
		s.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range cfg.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}
	for _, pattern := range cfg.Exclude.Files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}
	return s, nil
}

// Scan walks the project root and returns the relative paths of every
// file that passes the filters. Unreadable entries are logged and
// skipped rather than failing the whole run.
func (s *Scanner) Scan() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.excludedDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Wants(rel) {
			return nil
		}
		if s.maxFileSize > 0 {
			if info, infoErr := d.Info(); infoErr == nil && info.Size() > s.maxFileSize {
				slog.Warn("skipping oversized file", "path", rel, "size", info.Size())
				return nil
			}
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", s.root, err)
	}
	return files, nil
}

// Filter applies the same rules to an externally produced path list,
// such as git ls-files output.
func (s *Scanner) Filter(paths []string) []string {
	var out []string
	for _, p := range paths {
		p = filepath.ToSlash(p)
		if s.pathInExcludedDir(p) {
			continue
		}
		if s.Wants(p) {
			out = append(out, p)
		}
	}
	return out
}

// Wants reports whether a relative file path should be analyzed.
func (s *Scanner) Wants(rel string) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	if !s.extensions[ext] {
		return false
	}
	base := filepath.Base(rel)
	if !s.includeTests && isTestFile(base) {
		return false
	}
	for _, g := range s.excludeFiles {
		if g.Match(base) || g.Match(rel) {
			return false
		}
	}
	return true
}

func (s *Scanner) excludedDir(name, rel string) bool {
	for _, g := range s.excludeDirs {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}

func (s *Scanner) pathInExcludedDir(rel string) bool {
	dir := filepath.Dir(rel)
	for dir != "." && dir != "/" && dir != "" {
		if s.excludedDir(filepath.Base(dir), filepath.ToSlash(dir)) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

// isTestFile matches the common test-file conventions of the supported
// languages.
func isTestFile(base string) bool {
	lower := strings.ToLower(base)
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))
	switch {
	case strings.HasSuffix(stem, "_test"), strings.HasPrefix(stem, "test_"):
		return true
	case strings.Contains(lower, ".test."), strings.Contains(lower, ".spec."):
		return true
	case strings.HasSuffix(base, "Test.java"), strings.HasSuffix(base, "Tests.java"):
		return true
	case strings.HasSuffix(base, "Tests.swift"):
		return true
	}
	return false
}

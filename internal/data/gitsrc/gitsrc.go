// # internal/data/gitsrc/gitsrc.go

// Package gitsrc enumerates tracked files and reads their blob content
// from the current commit, so analysis can run against what the
// repository records rather than a dirty working tree.
package gitsrc

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type Source struct {
	root string
}

func New(root string) *Source {
	return &Source{root: root}
}

// ListTracked returns the repository-relative paths of every tracked
// file at HEAD.
func (s *Source) ListTracked() ([]string, error) {
	out, err := s.runGit("ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("list tracked files: %w", err)
	}
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// ReadBlob returns the committed content of one tracked path.
func (s *Source) ReadBlob(path string) (string, error) {
	out, err := s.runGit("show", "HEAD:"+path)
	if err != nil {
		return "", fmt.Errorf("read blob %q: %w", path, err)
	}
	return out, nil
}

// Metadata resolves the short hash and committer time of HEAD. Both are
// zero-valued outside a repository; callers treat that as "no commit".
func (s *Source) Metadata() (string, time.Time) {
	hash, err := s.runGit("rev-parse", "--short=12", "HEAD")
	if err != nil || hash == "" {
		return "", time.Time{}
	}
	raw, err := s.runGit("show", "-s", "--format=%cI", "HEAD")
	if err != nil {
		return hash, time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return hash, time.Time{}
	}
	return hash, ts.UTC()
}

func (s *Source) runGit(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", s.root}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

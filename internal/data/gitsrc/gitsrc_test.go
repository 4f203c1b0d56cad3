// # internal/data/gitsrc/gitsrc_test.go
package gitsrc

import (
	"os/exec"
	"testing"
)

func TestOutsideRepositoryDegradesCleanly(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	s := New(t.TempDir())
	if _, err := s.ListTracked(); err == nil {
		t.Error("ListTracked outside a repository returned no error")
	}
	hash, ts := s.Metadata()
	if hash != "" || !ts.IsZero() {
		t.Errorf("metadata outside a repository = %q / %v", hash, ts)
	}
}

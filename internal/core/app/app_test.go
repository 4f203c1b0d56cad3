// # internal/core/app/app_test.go
package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mainseq/internal/core/config"
	"mainseq/internal/engine/metrics"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.DB.Enabled = false
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRunEndToEnd(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "from abc import ABC, abstractmethod\n\nclass Foo(ABC):\n    @abstractmethod\n    def run(self):\n        ...\n",
		"b.py": "import a\n\ndef main():\n    return a.Foo()\n",
	})
	a := newTestApp(t, root)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, result.Files, "a.py")
	require.Contains(t, result.Files, "b.py")

	abstract := result.Files["a.py"]
	assert.Equal(t, 1, abstract.ClassesDefined)
	assert.Equal(t, 1, abstract.AfferentCoupling)
	assert.InDelta(t, 1.0, abstract.Abstractness, 1e-9)

	consumer := result.Files["b.py"]
	assert.Equal(t, 1, consumer.EfferentCoupling)

	assert.Equal(t, 2, result.Summary.TotalFiles)
	assert.Len(t, result.Maintainability, 2)
	assert.NotEmpty(t, result.Summary.Recommendations)
}

func TestRunIsRepeatable(t *testing.T) {
	root := writeTree(t, map[string]string{
		"core.py": "class Engine:\n    def start(self):\n        if self.ready:\n            return True\n",
		"use.py":  "import core\n",
	})
	a := newTestApp(t, root)

	first, err := a.Run(context.Background())
	require.NoError(t, err)
	second, err := a.Run(context.Background())
	require.NoError(t, err)

	// A rescan over unchanged content serves per-file work from the
	// cache but must still rebuild the cross-file coupling table.
	assert.Equal(t, first.Files["core.py"].AfferentCoupling, second.Files["core.py"].AfferentCoupling)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Maintainability, second.Maintainability)
}

func TestRunPersistsHistory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"thing.py": "class Thing:\n    pass\n",
	})
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.DB.Enabled = true
	cfg.DB.Path = filepath.Join(t.TempDir(), "history.db")
	cfg.DB.ProjectKey = "apptest"

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Run(context.Background())
	require.NoError(t, err)

	runs, err := a.store.RecentRuns("apptest", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].TotalFiles)
}

func TestScannerFilters(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.py":          "class A:\n    pass\n",
		"src/test_main.py":     "def test_a():\n    pass\n",
		"node_modules/x.js":    "class Dep {}\n",
		"docs/readme.md":       "# notes\n",
		"vendor/lib/helper.go": "package lib\n",
	})
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root

	scanner, err := NewScanner(cfg)
	require.NoError(t, err)

	files, err := scanner.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.py"}, files)
}

func TestScannerIncludeTests(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/store.go":      "package pkg\n",
		"pkg/store_test.go": "package pkg\n",
	})
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.Analysis.IncludeTests = true

	scanner, err := NewScanner(cfg)
	require.NoError(t, err)

	files, err := scanner.Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pkg/store.go", "pkg/store_test.go"}, files)
}

func TestScannerExtensionAllowlist(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "class A:\n    pass\n",
		"b.js": "class B {}\n",
	})
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.Analysis.Extensions = []string{".py"}

	scanner, err := NewScanner(cfg)
	require.NoError(t, err)

	files, err := scanner.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files)
}

func TestZoneGaugePublishing(t *testing.T) {
	root := writeTree(t, map[string]string{
		"only.py": "import os\nimport sys\n\nclass Concrete:\n    def go(self):\n        pass\n",
	})
	a := newTestApp(t, root)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	var total int
	for _, n := range result.Summary.ZoneCounts {
		total += n
	}
	assert.Equal(t, result.Summary.TotalFiles, total)
	assert.Contains(t, result.Files, "only.py")
	assert.NotEqual(t, metrics.Zone(""), result.Files["only.py"].Zone)
}

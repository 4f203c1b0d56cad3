// # internal/ui/report/report.go

// Package report renders a finished analysis run to the configured
// output formats.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"mainseq/internal/core/app"
)

// renderers maps a format name to its renderer and output file name.
var renderers = map[string]struct {
	file   string
	render func(*app.Result) ([]byte, error)
}{
	"json":     {"report.json", renderJSON},
	"yaml":     {"report.yaml", renderYAML},
	"markdown": {"report.md", renderMarkdown},
	"html":     {"report.html", renderHTML},
}

// WriteAll renders the result in every requested format under dir.
func WriteAll(dir string, formats []string, result *app.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	for _, format := range formats {
		r, ok := renderers[format]
		if !ok {
			return fmt.Errorf("unknown report format %q", format)
		}
		data, err := r.render(result)
		if err != nil {
			return fmt.Errorf("render %s report: %w", format, err)
		}
		path := filepath.Join(dir, r.file)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}
	}
	return nil
}

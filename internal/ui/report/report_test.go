// # internal/ui/report/report_test.go
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mainseq/internal/core/app"
	"mainseq/internal/engine/maintainability"
	"mainseq/internal/engine/metrics"
)

func sampleResult() *app.Result {
	return &app.Result{
		GeneratedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		CommitHash:  "abcdef123456",
		Files: map[string]*metrics.FileRecord{
			"core/base.py": {
				Path: "core/base.py", ClassesDefined: 2, AbstractClasses: 2,
				Abstractness: 1.0, Instability: 0.0, Distance: 0.0,
				AfferentCoupling: 3, Zone: metrics.ZoneMainSequence,
			},
			"legacy/glue.py": {
				Path: "legacy/glue.py", ClassesDefined: 4,
				EfferentCoupling: 1, AfferentCoupling: 9,
				Abstractness: 0.0, Instability: 0.1, Distance: 0.9,
				Zone: metrics.ZonePain,
			},
		},
		Summary: metrics.Summary{
			TotalFiles:      2,
			AverageDistance: 0.45,
			MaxDistance:     0.9,
			ZoneCounts: map[metrics.Zone]int{
				metrics.ZoneMainSequence: 1,
				metrics.ZonePain:         1,
			},
			Recommendations: []string{"reduce concrete hub coupling in legacy/glue.py"},
		},
		Maintainability: map[string]maintainability.Report{
			"core/base.py": {Path: "core/base.py", Index: 91.2, Interpretation: "highly maintainable"},
		},
		Classes: []metrics.ClassMetrics{
			{Name: "Base", File: "core/base.py", WMC: 3, DIT: 0, NOC: 1, RFC: 3},
		},
	}
}

func TestWriteAllFormats(t *testing.T) {
	dir := t.TempDir()
	err := WriteAll(dir, []string{"json", "yaml", "markdown", "html"}, sampleResult())
	require.NoError(t, err)

	for _, name := range []string{"report.json", "report.yaml", "report.md", "report.html"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestWriteAllRejectsUnknownFormat(t *testing.T) {
	err := WriteAll(t.TempDir(), []string{"pdf"}, sampleResult())
	assert.Error(t, err)
}

func TestJSONRoundTrips(t *testing.T) {
	data, err := renderJSON(sampleResult())
	require.NoError(t, err)

	var decoded app.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Summary.TotalFiles)
	assert.Equal(t, metrics.ZonePain, decoded.Files["legacy/glue.py"].Zone)
}

func TestYAMLContainsZoneCounts(t *testing.T) {
	data, err := renderYAML(sampleResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, string(data), "zone_of_pain")
}

func TestMarkdownOrdersWorstFirst(t *testing.T) {
	data, err := renderMarkdown(sampleResult())
	require.NoError(t, err)

	text := string(data)
	glue := strings.Index(text, "legacy/glue.py")
	base := strings.Index(text, "core/base.py")
	require.Positive(t, glue)
	require.Positive(t, base)
	assert.Less(t, glue, base, "highest distance should be listed first")
	assert.Contains(t, text, "| zone_of_pain | 1 |")
	assert.Contains(t, text, "reduce concrete hub coupling")
}

func TestHTMLIsSelfContained(t *testing.T) {
	data, err := renderHTML(sampleResult())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "<!DOCTYPE html>")
	assert.Contains(t, text, "legacy/glue.py")
	assert.Contains(t, text, "abcdef123456")
	assert.NotContains(t, text, "src=") // no external assets
}

// # internal/ui/report/html.go
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"mainseq/internal/core/app"
	"mainseq/internal/engine/metrics"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"mi": func(result *app.Result, path string) string {
		if rep, ok := result.Maintainability[path]; ok {
			return fmt.Sprintf("%.1f", rep.Index)
		}
		return "-"
	},
	"interpret": metrics.ZoneInterpretation,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Design Balance Report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 72rem; color: #1f2430; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #d5d9e0; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
th { background: #f2f4f8; }
tr.zone_of_pain td, tr.zone_of_uselessness td { background: #fdecea; }
tr.far_from_main_sequence td { background: #fff4e5; }
tr.main_sequence td { background: #edf7ed; }
.meta { color: #5a6372; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>Design Balance Report</h1>
<p class="meta">Generated {{.Result.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}}{{if .Result.CommitHash}} at commit <code>{{.Result.CommitHash}}</code>{{end}}</p>

<h2>Summary</h2>
<ul>
<li>Files analyzed: {{.Result.Summary.TotalFiles}}</li>
<li>Average distance: {{pct .Result.Summary.AverageDistance}}</li>
<li>Distance range: {{pct .Result.Summary.MinDistance}} &ndash; {{pct .Result.Summary.MaxDistance}}</li>
</ul>
<table>
<tr><th>Zone</th><th>Files</th><th></th></tr>
{{range .Zones}}<tr><td>{{.Zone}}</td><td>{{.Count}}</td><td>{{interpret .Zone}}</td></tr>
{{end}}</table>

<h2>Files</h2>
<table>
<tr><th>File</th><th>A</th><th>I</th><th>D</th><th>Zone</th><th>Ce</th><th>Ca</th><th>MI</th></tr>
{{range .Records}}<tr class="{{.Zone}}"><td>{{.Path}}</td><td>{{pct .Abstractness}}</td><td>{{pct .Instability}}</td><td>{{pct .Distance}}</td><td>{{.Zone}}</td><td>{{.EfferentCoupling}}</td><td>{{.AfferentCoupling}}</td><td>{{mi $.Result .Path}}</td></tr>
{{end}}</table>

{{if .Result.Classes}}<h2>Class Metrics</h2>
<table>
<tr><th>Class</th><th>File</th><th>WMC</th><th>DIT</th><th>NOC</th><th>CBO</th><th>RFC</th><th>LCOM</th><th>LCOM4</th></tr>
{{range .Result.Classes}}<tr><td>{{.Name}}</td><td>{{.File}}</td><td>{{.WMC}}</td><td>{{.DIT}}</td><td>{{.NOC}}</td><td>{{.CBO}}</td><td>{{.RFC}}</td><td>{{.LCOM}}</td><td>{{.LCOM4}}</td></tr>
{{end}}</table>{{end}}

<h2>Recommendations</h2>
<ul>
{{range .Result.Summary.Recommendations}}<li>{{.}}</li>
{{end}}</ul>
</body>
</html>
`))

type zoneRow struct {
	Zone  metrics.Zone
	Count int
}

func renderHTML(result *app.Result) ([]byte, error) {
	zones := make([]zoneRow, 0, len(zoneOrder))
	for _, zone := range zoneOrder {
		zones = append(zones, zoneRow{Zone: zone, Count: result.Summary.ZoneCounts[zone]})
	}

	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, map[string]any{
		"Result":  result,
		"Zones":   zones,
		"Records": sortedRecords(result),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

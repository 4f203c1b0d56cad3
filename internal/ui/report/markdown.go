// # internal/ui/report/markdown.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"mainseq/internal/core/app"
	"mainseq/internal/engine/metrics"
	"mainseq/internal/shared/util"
)

var zoneOrder = []metrics.Zone{
	metrics.ZoneMainSequence,
	metrics.ZoneNearMainSequence,
	metrics.ZoneFarFromMain,
	metrics.ZonePain,
	metrics.ZoneUselessness,
}

func renderMarkdown(result *app.Result) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Design Balance Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if result.CommitHash != "" {
		fmt.Fprintf(&b, "Commit: `%s`\n\n", result.CommitHash)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Files analyzed: %d\n", result.Summary.TotalFiles)
	fmt.Fprintf(&b, "- Average distance from main sequence: %.3f\n", result.Summary.AverageDistance)
	fmt.Fprintf(&b, "- Distance range: %.3f – %.3f\n\n", result.Summary.MinDistance, result.Summary.MaxDistance)

	b.WriteString("| Zone | Files |\n|------|-------|\n")
	for _, zone := range zoneOrder {
		fmt.Fprintf(&b, "| %s | %d |\n", zone, result.Summary.ZoneCounts[zone])
	}
	b.WriteString("\n")

	b.WriteString("## Files\n\n")
	b.WriteString("| File | A | I | D | Zone | Ce | Ca | MI |\n")
	b.WriteString("|------|---|---|---|------|----|----|----|\n")
	for _, rec := range sortedRecords(result) {
		mi := "-"
		if rep, ok := result.Maintainability[rec.Path]; ok {
			mi = fmt.Sprintf("%.1f", rep.Index)
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %s | %d | %d | %s |\n",
			rec.Path, rec.Abstractness, rec.Instability, rec.Distance,
			rec.Zone, rec.EfferentCoupling, rec.AfferentCoupling, mi)
	}
	b.WriteString("\n")

	if len(result.Classes) > 0 {
		b.WriteString("## Class Metrics\n\n")
		b.WriteString("| Class | File | WMC | DIT | NOC | CBO | RFC | LCOM | LCOM4 |\n")
		b.WriteString("|-------|------|-----|-----|-----|-----|-----|------|-------|\n")
		for _, c := range result.Classes {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %d | %d | %d |\n",
				c.Name, c.File, c.WMC, c.DIT, c.NOC, c.CBO, c.RFC, c.LCOM, c.LCOM4)
		}
		b.WriteString("\n")
	}

	if len(result.Maintainability) > 0 {
		b.WriteString("## Maintainability\n\n")
		b.WriteString("| File | LOC | CC | Volume | MI | |\n")
		b.WriteString("|------|-----|----|--------|----|----|\n")
		for _, path := range util.SortedKeys(result.Maintainability) {
			rep := result.Maintainability[path]
			fmt.Fprintf(&b, "| %s | %d | %d | %.1f | %.1f | %s |\n",
				path, rep.LinesCode, rep.CyclomaticComplexity,
				rep.HalsteadVolume, rep.Index, rep.Interpretation)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range result.Summary.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	return []byte(b.String()), nil
}

// sortedRecords orders files worst first so problem spots lead.
func sortedRecords(result *app.Result) []*metrics.FileRecord {
	recs := make([]*metrics.FileRecord, 0, len(result.Files))
	for _, rec := range result.Files {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Distance != recs[j].Distance {
			return recs[i].Distance > recs[j].Distance
		}
		return recs[i].Path < recs[j].Path
	})
	return recs
}

// # internal/engine/metrics/summary.go
package metrics

import "fmt"

// Summary is the repository-level rollup over one analysis run.
type Summary struct {
	TotalFiles      int           `json:"total_files" yaml:"total_files"`
	AverageDistance float64       `json:"average_distance" yaml:"average_distance"`
	MinDistance     float64       `json:"min_distance" yaml:"min_distance"`
	MaxDistance     float64       `json:"max_distance" yaml:"max_distance"`
	ZoneCounts      map[Zone]int  `json:"zone_counts" yaml:"zone_counts"`
	Recommendations []string      `json:"recommendations" yaml:"recommendations"`
}

// painShare is the fraction of files in a bad zone above which the
// summary starts warning.
const painShare = 0.2

// Summary aggregates the current table. Call it after
// CalculateAfferentCoupling; earlier, the distances reflect efferent
// coupling only.
func (a *Analyzer) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{ZoneCounts: make(map[Zone]int)}
	s.TotalFiles = len(a.files)
	if s.TotalFiles == 0 {
		return s
	}

	first := true
	var total float64
	for _, rec := range a.files {
		s.ZoneCounts[rec.Zone]++
		total += rec.Distance
		if first || rec.Distance < s.MinDistance {
			s.MinDistance = rec.Distance
		}
		if first || rec.Distance > s.MaxDistance {
			s.MaxDistance = rec.Distance
		}
		first = false
	}
	s.AverageDistance = total / float64(s.TotalFiles)
	s.Recommendations = recommend(s)
	return s
}

func recommend(s Summary) []string {
	var recs []string
	files := float64(s.TotalFiles)

	if pain := float64(s.ZoneCounts[ZonePain]) / files; pain > painShare {
		recs = append(recs, fmt.Sprintf(
			"%.0f%% of files sit in the zone of pain: concrete, stable modules that resist change. Introduce interfaces to decouple their dependents.",
			pain*100))
	}
	if useless := float64(s.ZoneCounts[ZoneUselessness]) / files; useless > painShare {
		recs = append(recs, fmt.Sprintf(
			"%.0f%% of files sit in the zone of uselessness: abstractions nothing depends on. Consider removing or consolidating them.",
			useless*100))
	}
	if far := float64(s.ZoneCounts[ZoneFarFromMain]) / files; far > painShare {
		recs = append(recs, fmt.Sprintf(
			"%.0f%% of files are far from the main sequence. Rebalance abstractness against the number of dependents.",
			far*100))
	}
	if s.AverageDistance > 0.4 {
		recs = append(recs, fmt.Sprintf(
			"average distance from the main sequence is %.2f; the codebase leans toward imbalanced module design.",
			s.AverageDistance))
	}
	if len(recs) == 0 {
		recs = append(recs, "module design is well balanced; no structural action needed.")
	}
	return recs
}

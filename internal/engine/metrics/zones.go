// # internal/engine/metrics/zones.go
package metrics

// classifyZone assigns a design zone from the (A, I, D) triple. The pain
// and uselessness corners only apply once a file is already far from the
// main sequence.
func classifyZone(abstractness, instability, distance float64) Zone {
	switch {
	case distance < 0.2:
		return ZoneMainSequence
	case distance < 0.4:
		return ZoneNearMainSequence
	case abstractness < 0.3 && instability < 0.3:
		return ZonePain
	case abstractness > 0.7 && instability > 0.7:
		return ZoneUselessness
	default:
		return ZoneFarFromMain
	}
}

// ZoneInterpretation explains a zone in report-friendly terms.
func ZoneInterpretation(zone Zone) string {
	switch zone {
	case ZoneMainSequence:
		return "well balanced between abstractness and stability"
	case ZoneNearMainSequence:
		return "slightly off the main sequence, acceptable"
	case ZonePain:
		return "concrete and heavily depended upon: rigid and hard to change"
	case ZoneUselessness:
		return "abstract with few dependents: likely speculative abstraction"
	case ZoneFarFromMain:
		return "imbalanced between abstractness and stability"
	default:
		return "unclassified"
	}
}

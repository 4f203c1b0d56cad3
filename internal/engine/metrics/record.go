// # internal/engine/metrics/record.go

// Package metrics derives per-file design-balance fingerprints from the
// declaration tree: efferent and afferent coupling, abstractness,
// instability, and distance from the main sequence, plus the design-zone
// classification built on top of them.
package metrics

// Zone buckets a file by where its (A, I) point falls relative to the
// main sequence A + I = 1.
type Zone string

const (
	ZoneMainSequence     Zone = "main_sequence"
	ZoneNearMainSequence Zone = "near_main_sequence"
	ZonePain             Zone = "zone_of_pain"
	ZoneUselessness      Zone = "zone_of_uselessness"
	ZoneFarFromMain      Zone = "far_from_main_sequence"
)

// FileRecord is the per-file metrics row. The structural extractor fills
// everything through EfferentCoupling; the aggregation pass fills
// AfferentCoupling and the derived fields, after which the record is
// frozen for reporting.
type FileRecord struct {
	Path string `json:"path" yaml:"path"`

	ClassesDefined    int `json:"classes_defined" yaml:"classes_defined"`
	AbstractClasses   int `json:"abstract_classes" yaml:"abstract_classes"`
	InterfacesDefined int `json:"interfaces_defined" yaml:"interfaces_defined"`
	MethodCount       int `json:"method_count" yaml:"method_count"`
	AttributeCount    int `json:"attribute_count" yaml:"attribute_count"`

	EfferentCoupling int `json:"efferent_coupling" yaml:"efferent_coupling"`
	AfferentCoupling int `json:"afferent_coupling" yaml:"afferent_coupling"`

	Abstractness float64 `json:"abstractness" yaml:"abstractness"`
	Instability  float64 `json:"instability" yaml:"instability"`
	Distance     float64 `json:"distance" yaml:"distance"`
	Zone         Zone    `json:"zone" yaml:"zone"`
}

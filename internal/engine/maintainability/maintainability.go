// # internal/engine/maintainability/maintainability.go

// Package maintainability computes the classic file-level maintainability
// scores that sit alongside the structural metrics: Halstead volume,
// McCabe cyclomatic complexity, line counts, and the composite
// maintainability index.
package maintainability

import (
	"math"
	"strings"

	"mainseq/internal/engine/token"
)

// Report carries every intermediate number so report renderers can show
// the breakdown, not just the index.
type Report struct {
	Path string `json:"path" yaml:"path"`

	LinesTotal   int `json:"lines_total" yaml:"lines_total"`
	LinesCode    int `json:"lines_code" yaml:"lines_code"`
	LinesComment int `json:"lines_comment" yaml:"lines_comment"`
	LinesBlank   int `json:"lines_blank" yaml:"lines_blank"`

	HalsteadVolume     float64 `json:"halstead_volume" yaml:"halstead_volume"`
	HalsteadDifficulty float64 `json:"halstead_difficulty" yaml:"halstead_difficulty"`
	HalsteadEffort     float64 `json:"halstead_effort" yaml:"halstead_effort"`

	CyclomaticComplexity int `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`

	Index          float64 `json:"maintainability_index" yaml:"maintainability_index"`
	Interpretation string  `json:"interpretation" yaml:"interpretation"`
}

var decisionWords = map[string]bool{
	"if": true, "elif": true, "for": true, "while": true,
	"case": true, "catch": true, "except": true, "when": true,
	"and": true, "or": true, "loop": true,
}

// Analyze computes the maintainability report for one file. Like the
// structural pipeline it is total: degenerate input yields a zeroed
// report with a full index, never an error.
func Analyze(path, content, ext string) Report {
	rep := Report{Path: path}
	countLines(&rep, content, ext)

	toks := token.Tokenize(content, token.ProfileForExtension(ext))
	halstead(&rep, toks)
	rep.CyclomaticComplexity = cyclomatic(toks)
	rep.Index = index(rep)
	rep.Interpretation = interpret(rep.Index)
	return rep
}

func countLines(rep *Report, content, ext string) {
	profile := token.ProfileForExtension(ext)
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		rep.LinesTotal++
		switch {
		case inBlock:
			rep.LinesComment++
			if profile.BlockCommentClose != "" && strings.Contains(trimmed, profile.BlockCommentClose) {
				inBlock = false
			}
		case trimmed == "":
			rep.LinesBlank++
		case profile.LineComment != "" && strings.HasPrefix(trimmed, profile.LineComment):
			rep.LinesComment++
		case profile.BlockCommentOpen != "" && strings.HasPrefix(trimmed, profile.BlockCommentOpen):
			rep.LinesComment++
			if profile.BlockCommentClose != "" && !strings.Contains(trimmed[len(profile.BlockCommentOpen):], profile.BlockCommentClose) {
				inBlock = true
			}
		default:
			rep.LinesCode++
		}
	}
}

// halstead treats operators, delimiters, and keywords as Halstead
// operators and identifiers, numbers, and strings as operands.
func halstead(rep *Report, toks []token.Token) {
	operators := make(map[string]bool)
	operands := make(map[string]bool)
	var totalOperators, totalOperands int

	for _, t := range toks {
		switch t.Kind {
		case token.Operator, token.Delimiter, token.Keyword:
			operators[t.Text] = true
			totalOperators++
		case token.Identifier, token.Number, token.String:
			operands[t.Text] = true
			totalOperands++
		}
	}

	vocabulary := float64(len(operators) + len(operands))
	length := float64(totalOperators + totalOperands)
	if vocabulary > 0 {
		rep.HalsteadVolume = length * math.Log2(vocabulary)
	}
	if len(operands) > 0 {
		rep.HalsteadDifficulty = float64(len(operators)) / 2 *
			float64(totalOperands) / float64(len(operands))
	}
	rep.HalsteadEffort = rep.HalsteadVolume * rep.HalsteadDifficulty
}

func cyclomatic(toks []token.Token) int {
	complexity := 1
	for _, t := range toks {
		switch {
		case t.Kind == token.Keyword && decisionWords[t.Text]:
			complexity++
		case t.Kind == token.Operator && (t.Text == "&&" || t.Text == "||"):
			complexity++
		}
	}
	return complexity
}

// index is the standard maintainability-index formula normalized to
// 0..100. Zero-volume or zero-line files score a full 100.
func index(rep Report) float64 {
	loc := rep.LinesCode
	if loc == 0 || rep.HalsteadVolume == 0 {
		return 100
	}

	perCM := 0.0
	if rep.LinesTotal > 0 {
		perCM = float64(rep.LinesComment) / float64(rep.LinesTotal)
	}

	raw := 171 -
		5.2*math.Log(rep.HalsteadVolume) -
		0.23*float64(rep.CyclomaticComplexity) -
		16.2*math.Log(float64(loc)) +
		50*math.Sin(math.Sqrt(2.4*perCM))

	normalized := raw * 100 / 171
	return math.Min(100, math.Max(0, normalized))
}

func interpret(index float64) string {
	switch {
	case index >= 85:
		return "highly maintainable"
	case index >= 65:
		return "moderately maintainable"
	default:
		return "difficult to maintain"
	}
}

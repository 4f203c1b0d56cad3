// # internal/engine/metrics/analyzer.go
package metrics

import (
	"math"
	"path/filepath"
	"strings"
	"sync"

	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/parser"
)

// Analyzer accumulates per-file records for one analysis run. AnalyzeFile
// may be called concurrently across files; the table insert is the only
// synchronized step. CalculateAfferentCoupling must not run until every
// AnalyzeFile call has returned — calling it earlier yields undercounted
// afferent coupling, which is a caller error, not a failure.
type Analyzer struct {
	mu    sync.Mutex
	files map[string]*FileRecord
	refs  map[string]map[string]bool // path -> efferent target names
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		files: make(map[string]*FileRecord),
		refs:  make(map[string]map[string]bool),
	}
}

// Reset clears the table so the same analyzer can serve another
// repository. Skipping this between runs contaminates coupling counts
// across repositories.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files = make(map[string]*FileRecord)
	a.refs = make(map[string]map[string]bool)
}

// AnalyzeFile parses one file and fills the structural half of its record.
// A file with no recognizable declarations still produces an all-zero
// record rather than being omitted.
func (a *Analyzer) AnalyzeFile(path, content, ext string) *FileRecord {
	mod := parser.Parse(content, ext)

	rec := &FileRecord{Path: path}
	for node := range ast.Walk(mod) {
		switch n := node.(type) {
		case *ast.Class:
			rec.ClassesDefined++
			if n.Abstract {
				rec.AbstractClasses++
			}
		case *ast.Interface:
			// interfaces count as classes and are always abstract
			rec.ClassesDefined++
			rec.AbstractClasses++
			rec.InterfacesDefined++
		case *ast.Function:
			rec.MethodCount++
		case *ast.Attribute:
			rec.AttributeCount++
		}
	}

	targets := a.collectEfferentTargets(mod, content, ext)
	rec.EfferentCoupling = len(targets)

	a.mu.Lock()
	a.files[path] = rec
	a.refs[path] = targets
	a.mu.Unlock()
	return rec
}

// collectEfferentTargets unions distinct imported names with distinct
// constructed type names. Qualified constructions resolve to their root
// qualifier so "import a" and "a.Foo()" count as one target.
func (a *Analyzer) collectEfferentTargets(mod *ast.Module, content, ext string) map[string]bool {
	targets := make(map[string]bool)
	for _, imp := range mod.Imports {
		for _, name := range imp.Names {
			if name == "" || name == "*" {
				name = rootName(imp.Target)
			}
			if name != "" {
				targets[name] = true
			}
		}
		if len(imp.Names) == 0 {
			if name := rootName(imp.Target); name != "" {
				targets[name] = true
			}
		}
	}
	for name := range scanConstructedNames(content, ext) {
		targets[name] = true
	}
	return targets
}

// Files returns the table keyed by path. The caller must treat records as
// read-only once aggregation has run.
func (a *Analyzer) Files() map[string]*FileRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]*FileRecord, len(a.files))
	for path, rec := range a.files {
		out[path] = rec
	}
	return out
}

// CalculateAfferentCoupling runs the single cross-file pass: every
// resolved efferent target bumps the referenced file's Ca by one, then
// the derived metrics and zone are fixed for every record.
func (a *Analyzer) CalculateAfferentCoupling() {
	a.mu.Lock()
	defer a.mu.Unlock()

	stems := make(map[string][]string) // module stem -> paths
	for path := range a.files {
		stem := moduleStem(path)
		stems[stem] = append(stems[stem], path)
	}

	for path, targets := range a.refs {
		for name := range targets {
			for _, other := range a.resolveTarget(name, stems) {
				if other == path {
					continue
				}
				a.files[other].AfferentCoupling++
			}
		}
	}

	for _, rec := range a.files {
		finalizeRecord(rec)
	}
}

// resolveTarget maps an efferent name to known files by exact stem match,
// falling back to the last segment of a qualified name. Unresolved names
// are dropped; they count against no one.
func (a *Analyzer) resolveTarget(name string, stems map[string][]string) []string {
	if paths, ok := stems[name]; ok {
		return paths
	}
	if leaf := leafName(name); leaf != name {
		if paths, ok := stems[leaf]; ok {
			return paths
		}
	}
	return nil
}

func finalizeRecord(rec *FileRecord) {
	if rec.ClassesDefined > 0 {
		rec.Abstractness = float64(rec.AbstractClasses) / float64(rec.ClassesDefined)
	}
	if total := rec.EfferentCoupling + rec.AfferentCoupling; total > 0 {
		rec.Instability = float64(rec.EfferentCoupling) / float64(total)
	}
	rec.Distance = math.Abs(rec.Abstractness + rec.Instability - 1)

	// A file with no classes and no coupling carries no design signal;
	// its (0, 0) point would otherwise read as a rigid, depended-upon
	// module. It is imbalanced, not painful.
	if rec.ClassesDefined == 0 && rec.EfferentCoupling == 0 && rec.AfferentCoupling == 0 {
		rec.Zone = ZoneFarFromMain
		return
	}
	rec.Zone = classifyZone(rec.Abstractness, rec.Instability, rec.Distance)
}

// moduleStem reduces a path to the name other files would refer to it by:
// the base name without its extension.
func moduleStem(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return base
}

// rootName takes the first segment of a dotted/qualified import target.
func rootName(target string) string {
	for _, sep := range []string{"::", "/", "."} {
		if idx := strings.Index(target, sep); idx >= 0 {
			target = target[:idx]
		}
	}
	return target
}

// leafName takes the final segment of a dotted/qualified name.
func leafName(name string) string {
	for _, sep := range []string{"::", "/", "."} {
		if idx := strings.LastIndex(name, sep); idx >= 0 {
			name = name[idx+len(sep):]
		}
	}
	return name
}

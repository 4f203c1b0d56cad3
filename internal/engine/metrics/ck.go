// # internal/engine/metrics/ck.go
package metrics

import (
	"mainseq/internal/engine/ast"
)

// ClassMetrics is the Chidamber-Kemerer suite for a single class,
// computed from declarations within one file.
type ClassMetrics struct {
	Name  string `json:"name" yaml:"name"`
	File  string `json:"file" yaml:"file"`
	WMC   int    `json:"wmc" yaml:"wmc"`     // weighted methods per class
	DIT   int    `json:"dit" yaml:"dit"`     // depth of inheritance tree
	NOC   int    `json:"noc" yaml:"noc"`     // number of children
	CBO   int    `json:"cbo" yaml:"cbo"`     // coupling between objects
	RFC   int    `json:"rfc" yaml:"rfc"`     // response for a class
	LCOM  int    `json:"lcom" yaml:"lcom"`   // lack of cohesion, pair form
	LCOM4 int    `json:"lcom4" yaml:"lcom4"` // lack of cohesion, components
}

// ComputeClassMetrics derives the CK suite for every class in a module.
// Inheritance-sensitive metrics (DIT, NOC) resolve base names against
// classes declared in the same module only; external bases contribute a
// depth of one.
func ComputeClassMetrics(path string, mod *ast.Module) []ClassMetrics {
	classes := collectClasses(mod)
	byName := make(map[string]*ast.Class, len(classes))
	for _, cls := range classes {
		if cls.Name != "" {
			byName[cls.Name] = cls
		}
	}

	children := make(map[string]int)
	for _, cls := range classes {
		for _, base := range cls.Bases {
			if _, ok := byName[base]; ok {
				children[base]++
			}
		}
	}

	out := make([]ClassMetrics, 0, len(classes))
	for _, cls := range classes {
		cm := ClassMetrics{Name: cls.Name, File: path}
		cm.WMC = weightedMethods(cls)
		cm.DIT = inheritanceDepth(cls, byName, make(map[string]bool))
		cm.NOC = children[cls.Name]
		cm.CBO = couplingBetweenObjects(cls, byName)
		cm.RFC = responseForClass(cls)
		cm.LCOM = lackOfCohesion(cls)
		cm.LCOM4 = cohesionComponents(cls)
		out = append(out, cm)
	}
	return out
}

func collectClasses(mod *ast.Module) []*ast.Class {
	var classes []*ast.Class
	for node := range ast.Walk(mod) {
		if cls, ok := node.(*ast.Class); ok {
			classes = append(classes, cls)
		}
	}
	return classes
}

func weightedMethods(cls *ast.Class) int {
	total := 0
	for _, m := range cls.Methods {
		c := m.Complexity
		if c < 1 {
			c = 1
		}
		total += c
	}
	return total
}

func inheritanceDepth(cls *ast.Class, byName map[string]*ast.Class, seen map[string]bool) int {
	if cls.Name != "" {
		if seen[cls.Name] {
			return 0 // inheritance cycle in malformed input
		}
		seen[cls.Name] = true
	}
	depth := 0
	for _, base := range cls.Bases {
		d := 1
		if parent, ok := byName[base]; ok {
			d = 1 + inheritanceDepth(parent, byName, seen)
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

// couplingBetweenObjects counts distinct other classes this class touches
// through its bases or through calls that resolve to a sibling class name
// (constructor calls).
func couplingBetweenObjects(cls *ast.Class, byName map[string]*ast.Class) int {
	coupled := make(map[string]bool)
	for _, base := range cls.Bases {
		if base != cls.Name {
			coupled[base] = true
		}
	}
	for _, m := range cls.Methods {
		for called := range m.CalledMethods {
			if called == cls.Name {
				continue
			}
			if _, ok := byName[called]; ok {
				coupled[called] = true
			}
		}
	}
	return len(coupled)
}

func responseForClass(cls *ast.Class) int {
	called := make(map[string]bool)
	for _, m := range cls.Methods {
		for name := range m.CalledMethods {
			called[name] = true
		}
	}
	return len(cls.Methods) + len(called)
}

// lackOfCohesion is the pairwise form: method pairs sharing no attribute
// minus pairs sharing at least one, floored at zero.
func lackOfCohesion(cls *ast.Class) int {
	sharing, disjoint := 0, 0
	for i := 0; i < len(cls.Methods); i++ {
		for j := i + 1; j < len(cls.Methods); j++ {
			if sharesAttribute(cls.Methods[i], cls.Methods[j]) {
				sharing++
			} else {
				disjoint++
			}
		}
	}
	if disjoint <= sharing {
		return 0
	}
	return disjoint - sharing
}

// cohesionComponents is LCOM4: connected components over methods, linked
// when two methods share an attribute or one calls the other.
func cohesionComponents(cls *ast.Class) int {
	n := len(cls.Methods)
	if n == 0 {
		return 0
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := cls.Methods[i], cls.Methods[j]
			if sharesAttribute(a, b) || callsEachOther(a, b) {
				union(i, j)
			}
		}
	}

	components := 0
	for i := range parent {
		if find(i) == i {
			components++
		}
	}
	return components
}

func sharesAttribute(a, b *ast.Function) bool {
	for attr := range a.AccessedAttrs {
		if b.AccessedAttrs[attr] {
			return true
		}
	}
	return false
}

func callsEachOther(a, b *ast.Function) bool {
	return a.CalledMethods[b.Name] || b.CalledMethods[a.Name]
}

// # internal/engine/ast/walk_test.go
package ast

import "testing"

func sampleModule() *Module {
	return &Module{
		Name: "sample",
		Imports: []*Import{
			{Target: "os"},
		},
		Classes: []*Class{
			{
				Name: "Outer",
				Methods: []*Function{
					{Name: "run"},
				},
				Attributes: []*Attribute{
					{Name: "state"},
				},
				Nested: []*Class{
					{Name: "Inner", Methods: []*Function{{Name: "helper"}}},
				},
			},
		},
		Interfaces: []*Interface{
			{Name: "Runner", Methods: []*Function{{Name: "Run", Abstract: true}}},
		},
		Functions: []*Function{
			{Name: "main"},
		},
	}
}

func TestWalkVisitsEveryNodePreOrder(t *testing.T) {
	mod := sampleModule()

	var order []string
	for node := range Walk(mod) {
		switch n := node.(type) {
		case *Module:
			order = append(order, "module:"+n.Name)
		case *Import:
			order = append(order, "import:"+n.Target)
		case *Class:
			order = append(order, "class:"+n.Name)
		case *Interface:
			order = append(order, "interface:"+n.Name)
		case *Function:
			order = append(order, "func:"+n.Name)
		case *Attribute:
			order = append(order, "attr:"+n.Name)
		}
	}

	want := []string{
		"module:sample",
		"import:os",
		"class:Outer",
		"func:run",
		"attr:state",
		"class:Inner",
		"func:helper",
		"interface:Runner",
		"func:Run",
		"func:main",
	}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(order), len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, order[i], want[i])
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	mod := sampleModule()

	count := 0
	for range Walk(mod) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("expected early stop at 3 nodes, walked %d", count)
	}

	// A fresh call restarts from the root.
	total := 0
	for range Walk(mod) {
		total++
	}
	if total != 10 {
		t.Errorf("fresh walk should revisit all 10 nodes, got %d", total)
	}
}

func TestIterChildNodesImmediateOnly(t *testing.T) {
	mod := sampleModule()

	direct := 0
	for range IterChildNodes(mod) {
		direct++
	}
	// imports + classes + interfaces + functions, no grandchildren
	if direct != 4 {
		t.Errorf("expected 4 immediate children, got %d", direct)
	}

	for node := range IterChildNodes(mod) {
		if cls, ok := node.(*Class); ok && cls.Name == "Inner" {
			t.Error("nested class surfaced as an immediate module child")
		}
	}
}

func TestLeafNodesHaveNoChildren(t *testing.T) {
	leaves := []Node{
		&Import{Target: "x"},
		&Function{Name: "f"},
		&Attribute{Name: "a"},
	}
	for _, leaf := range leaves {
		for range IterChildNodes(leaf) {
			t.Errorf("leaf %T yielded a child", leaf)
		}
	}
}

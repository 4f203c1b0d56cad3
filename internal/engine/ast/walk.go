// # internal/engine/ast/walk.go
package ast

import "iter"

// childNodes is the per-variant child-field table. It is the single place
// that knows which fields of each variant hold nodes; traversal and every
// analysis built on it stay free of per-type branching.
func childNodes(n Node) []Node {
	switch node := n.(type) {
	case *Module:
		children := make([]Node, 0, len(node.Imports)+len(node.Classes)+len(node.Interfaces)+len(node.Functions))
		for _, imp := range node.Imports {
			children = append(children, imp)
		}
		for _, cls := range node.Classes {
			children = append(children, cls)
		}
		for _, iface := range node.Interfaces {
			children = append(children, iface)
		}
		for _, fn := range node.Functions {
			children = append(children, fn)
		}
		return children
	case *Class:
		children := make([]Node, 0, len(node.Methods)+len(node.Attributes)+len(node.Nested))
		for _, m := range node.Methods {
			children = append(children, m)
		}
		for _, a := range node.Attributes {
			children = append(children, a)
		}
		for _, nested := range node.Nested {
			children = append(children, nested)
		}
		return children
	case *Interface:
		children := make([]Node, 0, len(node.Methods))
		for _, m := range node.Methods {
			children = append(children, m)
		}
		return children
	default:
		// Import, Function and Attribute are leaves.
		return nil
	}
}

// IterChildNodes yields the immediate children of node, grouped by kind
// and in declaration order within each kind.
func IterChildNodes(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes(node) {
			if !yield(child) {
				return
			}
		}
	}
}

// Walk yields node and every node beneath it, depth-first and pre-order.
// The sequence is lazy and single-use; calling Walk again restarts from the
// root. Siblings of one kind come back in declaration order, but because
// each variant stores its children in slices per kind, children of
// different kinds are grouped (a Module's imports precede its classes even
// when interleaved in source).
func Walk(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(node, yield)
	}
}

func walk(node Node, yield func(Node) bool) bool {
	if node == nil {
		return true
	}
	if !yield(node) {
		return false
	}
	for _, child := range childNodes(node) {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

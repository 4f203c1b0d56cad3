// # internal/engine/ast/nodes.go

// Package ast defines the uniform declaration tree produced by the
// per-language parsers. The node set is closed: Module, Import, Class,
// Interface, Function and Attribute cover everything the structural
// metrics need, regardless of source language.
package ast

// Span is the source position of a node. Synthesised nodes (such as a
// module's own node) default to the zero value; positions are never
// negative.
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Node is implemented by every variant in the tree. A Module owns its
// entire subtree exclusively; traversal order is declaration order.
type Node interface {
	Pos() Span
}

// Module is the root node for one source file.
type Module struct {
	Span
	Name       string
	Imports    []*Import
	Classes    []*Class
	Interfaces []*Interface
	Functions  []*Function
}

// Import is one import/use/include statement.
type Import struct {
	Span
	Target string   // imported module or path
	Names  []string // imported symbol names
	IsFrom bool     // "from X import Y" style
}

// Class is a class, struct or equivalent concrete type declaration.
type Class struct {
	Span
	Name       string
	Bases      []string
	Methods    []*Function
	Attributes []*Attribute
	Decorators []string
	Abstract   bool
	Interface  bool // interface-like construct re-cast as a class
	Nested     []*Class
}

// Interface is an interface, trait or protocol declaration. Interfaces
// are always abstract for coupling purposes.
type Interface struct {
	Span
	Name    string
	Methods []*Function
	Extends []string
}

// Function is a function or method declaration.
type Function struct {
	Span
	Name       string
	Params     []string
	ReturnType string
	Decorators []string
	Abstract   bool
	Static     bool
	Visibility string // public, private, protected, package

	// Body observations collected while scanning past the body. Feed the
	// cohesion and response metrics; empty when the body was not scanned.
	Complexity    int
	AccessedAttrs map[string]bool
	CalledMethods map[string]bool
}

// Attribute is a class field or property.
type Attribute struct {
	Span
	Name       string
	TypeText   string
	Visibility string
}

func (s Span) Pos() Span { return s }

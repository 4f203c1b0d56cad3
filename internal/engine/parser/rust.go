// # internal/engine/parser/rust.go
package parser

import (
	"strings"

	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// rustParser reads Rust declarations. Methods live in impl blocks, so they
// are collected per target type and attached after the whole file is read.
type rustParser struct {
	*cursor
}

func (p *rustParser) parse() *ast.Module {
	mod := &ast.Module{}
	pending := make(map[string][]*ast.Function)
	classIndex := make(map[string]*ast.Class)

	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("use"):
			p.parseUse(mod)
		case p.match("pub"):
			p.advance()
			if p.match("(") { // pub(crate) and friends
				p.skipParenGroup()
			}
		case p.match("struct", "enum"):
			cls := p.parseStruct(classIndex)
			mod.Classes = append(mod.Classes, cls)
		case p.match("trait"):
			mod.Interfaces = append(mod.Interfaces, p.parseTrait())
		case p.match("impl"):
			p.parseImpl(pending)
		case p.match("fn"):
			mod.Functions = append(mod.Functions, p.parseFn("public"))
		case p.match("mod"):
			p.advance()
			if p.matchKind(token.Identifier) {
				p.advance()
			}
			// inline module bodies surface at file level
			p.consume("{")
		default:
			p.advance()
		}
	}

	for target, methods := range pending {
		if cls, ok := classIndex[target]; ok {
			cls.Methods = append(cls.Methods, methods...)
		} else {
			mod.Functions = append(mod.Functions, methods...)
		}
	}
	for _, cls := range mod.Classes {
		finalizeClass(cls)
	}
	return mod
}

// parseUse flattens "use a::b::{C, D};" into one import per leaf name.
func (p *rustParser) parseUse(mod *ast.Module) {
	start := p.advance()
	var prefix []string
	for !p.done() && !p.match(";") && !p.matchKind(token.Newline) {
		cur := p.current()
		switch {
		case cur.Kind == token.Identifier || cur.Kind == token.Keyword:
			if cur.Text != "as" {
				prefix = append(prefix, cur.Text)
			} else {
				p.advance() // as
				if p.matchKind(token.Identifier) {
					p.advance() // alias replaces nothing structural
				}
				continue
			}
			p.advance()
		case cur.Text == "{":
			p.advance()
			target := strings.Join(prefix, "::")
			imp := &ast.Import{Span: spanAt(start), Target: target, IsFrom: true}
			depth := 1
			for !p.done() && depth > 0 {
				inner := p.current()
				switch inner.Text {
				case "{":
					depth++
				case "}":
					depth--
				default:
					if depth == 1 && inner.Kind == token.Identifier && inner.Text != "self" {
						imp.Names = append(imp.Names, inner.Text)
					}
				}
				p.advance()
			}
			mod.Imports = append(mod.Imports, imp)
			p.skipUntil(";", "\n")
			p.consume(";")
			return
		case cur.Text == "*":
			p.advance()
		default:
			p.advance()
		}
	}
	p.consume(";")
	if len(prefix) > 0 {
		leaf := prefix[len(prefix)-1]
		target := strings.Join(prefix, "::")
		mod.Imports = append(mod.Imports, &ast.Import{
			Span: spanAt(start), Target: target, Names: []string{leaf},
		})
	}
}

func (p *rustParser) parseStruct(classIndex map[string]*ast.Class) *ast.Class {
	start := p.advance() // struct/enum
	cls := &ast.Class{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
		classIndex[cls.Name] = cls
	}
	p.skipAngles()

	switch {
	case p.match("{"):
		p.parseStructBody(cls)
	case p.match("("):
		// tuple struct: fields are positional, count them unnamed
		p.skipParenGroup()
		p.consume(";")
	default:
		p.consume(";") // unit struct
	}
	return cls
}

func (p *rustParser) parseStructBody(cls *ast.Class) {
	p.consume("{")
	for !p.done() {
		if p.matchKind(token.Newline) || p.match(",") {
			p.advance()
			continue
		}
		if p.match("}") {
			end := p.advance()
			cls.EndLine = end.Line
			cls.EndColumn = end.Column
			return
		}
		visibility := "private"
		if p.consume("pub") {
			visibility = "public"
			if p.match("(") {
				p.skipParenGroup()
			}
		}
		if p.matchKind(token.Identifier) && p.nextTextIs(":") {
			cur := p.current()
			attr := &ast.Attribute{Span: spanAt(cur), Name: cur.Text, Visibility: visibility}
			p.advance()
			p.advance() // :
			if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
				attr.TypeText = p.current().Text
			}
			cls.Attributes = append(cls.Attributes, attr)
			p.skipUntil(",", "}", "\n")
			continue
		}
		p.advance()
	}
}

func (p *rustParser) parseTrait() *ast.Interface {
	start := p.advance() // trait
	iface := &ast.Interface{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		iface.Name = p.advance().Text
	}
	p.skipAngles()
	if p.consume(":") {
		for !p.done() && !p.match("{") {
			if p.matchKind(token.Identifier) {
				iface.Extends = append(iface.Extends, p.current().Text)
			}
			p.advance()
		}
	}
	if !p.consume("{") {
		return iface
	}
	depth := 1
	for !p.done() && depth > 0 {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("{"):
			depth++
			p.advance()
		case p.match("}"):
			depth--
			end := p.advance()
			if depth == 0 {
				iface.EndLine = end.Line
				iface.EndColumn = end.Column
			}
		case depth == 1 && p.match("fn"):
			fn := p.parseFn("public")
			// a required method has no body and stays abstract
			if fn.Complexity <= 1 && fn.EndLine == 0 {
				fn.Abstract = true
			}
			iface.Methods = append(iface.Methods, fn)
		default:
			p.advance()
		}
	}
	return iface
}

// parseImpl reads "impl Type { ... }" and "impl Trait for Type { ... }",
// recording the methods against the concrete type.
func (p *rustParser) parseImpl(pending map[string][]*ast.Function) {
	p.advance() // impl
	p.skipAngles()

	var target string
	if p.matchKind(token.Identifier) {
		target = p.advance().Text
		p.skipAngles()
	}
	if p.consume("for") {
		if p.matchKind(token.Identifier) {
			target = p.advance().Text
			p.skipAngles()
		}
	}
	if !p.consume("{") {
		return
	}
	depth := 1
	for !p.done() && depth > 0 {
		switch {
		case p.match("{"):
			depth++
			p.advance()
		case p.match("}"):
			depth--
			p.advance()
		case depth == 1 && p.match("fn"):
			fn := p.parseFn("private")
			pending[target] = append(pending[target], fn)
		case depth == 1 && p.match("pub"):
			p.advance()
			if p.match("(") {
				p.skipParenGroup()
			}
			if p.match("fn") {
				fn := p.parseFn("public")
				pending[target] = append(pending[target], fn)
			}
		default:
			p.advance()
		}
	}
}

func (p *rustParser) parseFn(visibility string) *ast.Function {
	start := p.advance() // fn
	fn := &ast.Function{Span: spanAt(start), Visibility: visibility}
	if p.matchKind(token.Identifier) {
		fn.Name = p.advance().Text
	}
	p.skipAngles()
	p.readParams(fn)
	if p.consume("->") {
		for !p.done() && !p.match("{") && !p.match(";") && !p.matchKind(token.Newline) {
			if fn.ReturnType == "" && (p.matchKind(token.Identifier) || p.matchKind(token.Keyword)) {
				fn.ReturnType = p.current().Text
			}
			p.advance()
		}
	}
	if p.match("{") {
		p.observeBody(fn)
	} else {
		p.consume(";")
		fn.Complexity = 1
	}
	return fn
}

func (p *rustParser) readParams(fn *ast.Function) {
	if !p.consume("(") {
		return
	}
	depth := 1
	for !p.done() && depth > 0 {
		cur := p.current()
		switch cur.Text {
		case "(", "[", "{", "<":
			depth++
		case ")", "]", "}", ">":
			depth--
		default:
			if depth == 1 && cur.Kind == token.Identifier && cur.Text != "self" && p.nextTextIs(":") {
				fn.Params = append(fn.Params, cur.Text)
			}
		}
		p.advance()
	}
}

func (p *rustParser) skipAngles() {
	if !p.match("<") {
		return
	}
	p.advance()
	depth := 1
	for !p.done() && depth > 0 {
		switch p.current().Text {
		case "<":
			depth++
		case ">":
			depth--
		case "{", ";":
			return
		}
		p.advance()
	}
}

func (p *rustParser) skipParenGroup() {
	if !p.consume("(") {
		return
	}
	depth := 1
	for !p.done() && depth > 0 {
		switch p.current().Text {
		case "(":
			depth++
		case ")":
			depth--
		}
		p.advance()
	}
}

func (p *rustParser) nextTextIs(text string) bool {
	next := p.peek(1)
	return next != nil && next.Text == text
}

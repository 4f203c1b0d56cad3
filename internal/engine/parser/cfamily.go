// # internal/engine/parser/cfamily.go
package parser

import (
	"strings"

	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// cFamilyParser covers C and C++ headers and sources and doubles as the
// generic fallback for unknown extensions.
type cFamilyParser struct {
	*cursor
}

func (p *cFamilyParser) parse() *ast.Module {
	mod := &ast.Module{}
	p.parseScope(mod)
	return mod
}

func (p *cFamilyParser) parseScope(mod *ast.Module) {
	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("include"):
			p.parseInclude(mod)
		case p.match("namespace"):
			p.advance()
			if p.matchKind(token.Identifier) {
				p.advance()
			}
			// declarations inside a namespace surface at module level
			if p.consume("{") {
				continue
			}
		case p.match("template"):
			p.advance()
			p.skipAngleBrackets()
		case p.match("class", "struct"):
			if cls, ok := p.parseClass(); ok {
				finalizeClass(cls)
				mod.Classes = append(mod.Classes, cls)
			}
		case p.match("using"):
			p.parseUsing(mod)
		case p.match("}"):
			p.advance()
		default:
			p.advance()
		}
	}
}

// parseInclude handles both #include <header> and #include "header". The
// preprocessor hash itself is not tokenized, so the include keyword is the
// anchor.
func (p *cFamilyParser) parseInclude(mod *ast.Module) {
	start := p.advance()
	imp := &ast.Import{Span: spanAt(start)}
	switch {
	case p.matchKind(token.String):
		imp.Target = p.advance().Text
	case p.consume("<"):
		var target strings.Builder
		for !p.done() && !p.match(">") && !p.matchKind(token.Newline) {
			target.WriteString(p.advance().Text)
		}
		p.consume(">")
		imp.Target = target.String()
	default:
		return
	}
	imp.Names = append(imp.Names, headerBase(imp.Target))
	mod.Imports = append(mod.Imports, imp)
}

func (p *cFamilyParser) parseUsing(mod *ast.Module) {
	start := p.advance()
	if p.consume("namespace") {
		var target strings.Builder
		for !p.done() && !p.match(";") && !p.matchKind(token.Newline) {
			target.WriteString(p.advance().Text)
		}
		if target.Len() > 0 {
			mod.Imports = append(mod.Imports, &ast.Import{
				Span: spanAt(start), Target: target.String(), IsFrom: true,
			})
		}
	}
	p.skipUntil(";", "\n")
	p.consume(";")
}

// parseClass returns ok=false for forward declarations and plain C struct
// typedef heads with no body.
func (p *cFamilyParser) parseClass() (*ast.Class, bool) {
	start := p.advance() // class/struct
	cls := &ast.Class{Span: spanAt(start)}

	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
	}
	p.skipAngleBrackets()

	if p.consume(":") {
		for !p.done() && !p.match("{") && !p.match(";") {
			cur := p.current()
			if cur.Kind == token.Identifier && !isAccessSpecifier(cur.Text) && cur.Text != "virtual" {
				cls.Bases = append(cls.Bases, cur.Text)
			}
			p.advance()
		}
	}

	if !p.match("{") {
		p.consume(";")
		return nil, false
	}
	p.parseClassBody(cls)
	return cls, true
}

func (p *cFamilyParser) parseClassBody(cls *ast.Class) {
	p.consume("{")
	visibility := "private" // class default; struct default differs but is not tracked
	for !p.done() {
		switch {
		case p.matchKind(token.Newline), p.match(";"):
			p.advance()
		case p.match("}"):
			end := p.advance()
			cls.EndLine = end.Line
			cls.EndColumn = end.Column
			p.consume(";")
			return
		case isAccessSpecifier(p.currentText()) && p.nextTextIs(":"):
			visibility = p.advance().Text
			p.advance()
		case p.match("class", "struct"):
			if nested, ok := p.parseClass(); ok {
				finalizeClass(nested)
				cls.Nested = append(cls.Nested, nested)
			}
		case p.match("template"):
			p.advance()
			p.skipAngleBrackets()
		default:
			p.parseMember(cls, visibility)
		}
	}
}

// parseMember reads one member declaration: "type name(...)" is a method,
// "type name;" or "type name = ..." is an attribute. A trailing "= 0"
// marks a pure virtual method.
func (p *cFamilyParser) parseMember(cls *ast.Class, visibility string) {
	static := false
	var typeText, name string
	var nameTok *token.Token

	for !p.done() {
		cur := p.current()
		switch {
		case cur.Text == "static":
			static = true
			p.advance()
		case cur.Text == "virtual" || cur.Text == "const" || cur.Text == "inline" || cur.Text == "explicit" ||
			cur.Text == "constexpr" || cur.Text == "mutable" || cur.Text == "override" ||
			cur.Text == "final" || cur.Text == "*" || cur.Text == "&":
			p.advance()
		case cur.Text == "~":
			// destructor; fold the tilde into the name
			p.advance()
			if p.matchKind(token.Identifier) {
				name = "~" + p.current().Text
				nameTok = p.current()
				p.advance()
			}
		case cur.Kind == token.Identifier || cur.Kind == token.Keyword:
			if name != "" {
				typeText = name
			}
			name = cur.Text
			nameTok = cur
			p.advance()
			p.skipAngleBrackets()
			// qualified names arrive as ident : : ident
			if p.match(":") && p.nextTextIs(":") {
				p.advance()
				p.advance()
			}
		case cur.Text == "(":
			if name == "" {
				p.skipParenGroup()
				continue
			}
			p.finishMethod(cls, nameTok, name, typeText, visibility, static)
			return
		case cur.Text == ";" || cur.Kind == token.Newline:
			if name != "" {
				cls.Attributes = append(cls.Attributes, &ast.Attribute{
					Span: spanAt(nameTok), Name: name,
					TypeText: typeText, Visibility: visibility,
				})
			}
			p.advance()
			return
		case cur.Text == "=":
			p.skipUntil(";", "\n")
			if name != "" {
				cls.Attributes = append(cls.Attributes, &ast.Attribute{
					Span: spanAt(nameTok), Name: name,
					TypeText: typeText, Visibility: visibility,
				})
			}
			return
		case cur.Text == "{":
			p.skipBraceBlock()
			return
		case cur.Text == "}":
			return
		default:
			p.advance()
		}
	}
}

func (p *cFamilyParser) finishMethod(cls *ast.Class, nameTok *token.Token, name, returnType, visibility string, static bool) {
	fn := &ast.Function{
		Span:       spanAt(nameTok),
		Name:       name,
		ReturnType: returnType,
		Static:     static,
		Visibility: visibility,
	}
	p.readParams(fn)
	// trailer: const, override, noexcept, "= 0" (pure virtual), "= default"
	for !p.done() && !p.match("{") && !p.match(";") && !p.matchKind(token.Newline) {
		if p.consume("=") {
			if p.match("0") {
				fn.Abstract = true
			}
			p.advance()
			continue
		}
		p.advance()
	}
	if p.match("{") {
		p.observeBody(fn)
	} else {
		fn.Complexity = 1
	}
	if fn.Abstract {
		cls.Abstract = true
	}
	cls.Methods = append(cls.Methods, fn)
}

func (p *cFamilyParser) readParams(fn *ast.Function) {
	if !p.consume("(") {
		return
	}
	depth := 1
	var last string
	for !p.done() && depth > 0 {
		cur := p.current()
		switch cur.Text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 && last != "" {
				fn.Params = append(fn.Params, last)
			}
		case ",":
			if depth == 1 && last != "" {
				fn.Params = append(fn.Params, last)
				last = ""
			}
		case "=":
			if depth == 1 && last != "" {
				fn.Params = append(fn.Params, last)
				last = ""
			}
			p.skipUntil(",", ")")
			continue
		default:
			if cur.Kind == token.Identifier {
				last = cur.Text
			}
		}
		p.advance()
	}
}

func (p *cFamilyParser) skipAngleBrackets() {
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

func (p *cFamilyParser) skipParenGroup() {
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

func (p *cFamilyParser) currentText() string {
	if cur := p.current(); cur != nil {
		return cur.Text
	}
	return ""
}

func (p *cFamilyParser) nextTextIs(text string) bool {
	next := p.peek(1)
	return next != nil && next.Text == text
}

func isAccessSpecifier(text string) bool {
	return text == "public" || text == "private" || text == "protected"
}

// headerBase strips the directory and extension from an include path, so
// <vector> and "util/strings.h" resolve to vector and strings.
func headerBase(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		path = path[idx+1:]
	}
	if idx := strings.IndexByte(path, '.'); idx > 0 {
		path = path[:idx]
	}
	return path
}

// # internal/engine/parser/jsts.go
package parser

import (
	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// scriptParser covers JavaScript and TypeScript. TypeScript mode adds
// interfaces, abstract classes, and member visibility keywords.
type scriptParser struct {
	*cursor
	typescript bool
}

func (p *scriptParser) parse() *ast.Module {
	mod := &ast.Module{}
	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("import"):
			p.parseImport(mod)
		case p.match("export"):
			p.advance()
			p.consume("default")
		case p.match("const", "let", "var"):
			p.parseRequire(mod)
		case p.match("abstract") && p.nextTextIs("class"):
			p.advance()
			cls := p.parseClass(true)
			finalizeClass(cls)
			mod.Classes = append(mod.Classes, cls)
		case p.match("class"):
			cls := p.parseClass(false)
			finalizeClass(cls)
			mod.Classes = append(mod.Classes, cls)
		case p.typescript && p.match("interface"):
			mod.Interfaces = append(mod.Interfaces, p.parseInterface())
		case p.match("function"), p.match("async") && p.nextTextIs("function"):
			mod.Functions = append(mod.Functions, p.parseFunction())
		default:
			p.advance()
		}
	}
	return mod
}

// parseImport reads "import { a, b } from 'mod'", "import x from 'mod'",
// and bare "import 'mod'".
func (p *scriptParser) parseImport(mod *ast.Module) {
	start := p.advance()
	imp := &ast.Import{Span: spanAt(start), IsFrom: true}
	for !p.done() && !p.matchKind(token.Newline) && !p.match(";") {
		cur := p.current()
		switch {
		case cur.Text == "from":
			p.advance()
			if p.matchKind(token.String) {
				imp.Target = p.advance().Text
			}
		case cur.Kind == token.String:
			// bare side-effect import
			imp.Target = cur.Text
			p.advance()
		case cur.Kind == token.Identifier && cur.Text != "as" && cur.Text != "type":
			imp.Names = append(imp.Names, cur.Text)
			p.advance()
		default:
			p.advance()
		}
	}
	if imp.Target != "" || len(imp.Names) > 0 {
		mod.Imports = append(mod.Imports, imp)
	}
}

// parseRequire recognises "const x = require('mod')" as an import.
func (p *scriptParser) parseRequire(mod *ast.Module) {
	start := p.advance() // const/let/var
	var names []string
	for !p.done() && !p.match("=") && !p.matchKind(token.Newline) && !p.match(";") {
		if p.matchKind(token.Identifier) {
			names = append(names, p.current().Text)
		}
		p.advance()
	}
	if !p.consume("=") {
		return
	}
	if p.match("require") {
		p.advance()
		if p.consume("(") && p.matchKind(token.String) {
			mod.Imports = append(mod.Imports, &ast.Import{
				Span:   spanAt(start),
				Target: p.advance().Text,
				Names:  names,
			})
		}
	}
}

func (p *scriptParser) parseClass(abstract bool) *ast.Class {
	start := p.advance() // class
	cls := &ast.Class{Span: spanAt(start), Abstract: abstract}

	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
	}
	p.skipTypeParams()
	for p.match("extends", "implements") {
		p.advance()
		for !p.done() && !p.match("{") && !p.match("extends", "implements") {
			if p.matchKind(token.Identifier) {
				cls.Bases = append(cls.Bases, p.current().Text)
				p.advance()
				p.skipTypeParams()
				continue
			}
			if p.match(",") || p.match(".") {
				p.advance()
				continue
			}
			break
		}
	}

	p.parseClassBody(cls)
	return cls
}

func (p *scriptParser) parseClassBody(cls *ast.Class) {
	if !p.consume("{") {
		return
	}
	for !p.done() {
		if p.matchKind(token.Newline) || p.match(";") {
			p.advance()
			continue
		}
		if p.match("}") {
			end := p.advance()
			cls.EndLine = end.Line
			cls.EndColumn = end.Column
			return
		}

		visibility := "public"
		abstract, static := false, false
		for p.match("public", "private", "protected", "readonly", "static", "abstract", "async", "override", "get", "set") {
			switch p.current().Text {
			case "private":
				visibility = "private"
			case "protected":
				visibility = "protected"
			case "static":
				static = true
			case "abstract":
				abstract = true
			}
			p.advance()
		}
		cur := p.current()
		if cur == nil {
			return
		}
		if cur.Kind != token.Identifier && cur.Kind != token.Keyword {
			p.advance()
			continue
		}
		name := cur.Text
		nameTok := cur
		p.advance()
		p.skipTypeParams()

		if p.match("(") {
			fn := &ast.Function{
				Span: spanAt(nameTok), Name: name,
				Abstract: abstract, Static: static, Visibility: visibility,
			}
			p.readParams(fn)
			if p.consume(":") {
				if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
					fn.ReturnType = p.advance().Text
				}
			}
			if p.match("{") {
				p.observeBody(fn)
			} else {
				fn.Complexity = 1
				if abstract {
					fn.Abstract = true
				}
			}
			cls.Methods = append(cls.Methods, fn)
			if fn.Abstract {
				cls.Abstract = true
			}
			continue
		}

		attr := &ast.Attribute{Span: spanAt(nameTok), Name: name, Visibility: visibility}
		if p.consume(":") {
			if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
				attr.TypeText = p.current().Text
			}
		}
		cls.Attributes = append(cls.Attributes, attr)
		p.skipMemberTail()
	}
}

// skipMemberTail consumes a field initializer through its end of statement,
// skipping over nested braces so arrow-function fields do not desync the
// class body.
func (p *scriptParser) skipMemberTail() {
	for !p.done() {
		switch {
		case p.match("{"):
			p.skipBraceBlock()
		case p.match("("):
			p.skipParens()
		case p.match(";"), p.matchKind(token.Newline):
			p.advance()
			return
		case p.match("}"):
			return
		default:
			p.advance()
		}
	}
}

func (p *scriptParser) parseInterface() *ast.Interface {
	start := p.advance() // interface
	iface := &ast.Interface{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		iface.Name = p.advance().Text
	}
	p.skipTypeParams()
	if p.consume("extends") {
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
	for !p.done() {
		if p.matchKind(token.Newline) || p.match(";") || p.match(",") {
			p.advance()
			continue
		}
		if p.match("}") {
			end := p.advance()
			iface.EndLine = end.Line
			iface.EndColumn = end.Column
			return iface
		}
		if p.matchKind(token.Identifier) {
			cur := p.current()
			if open := p.peek(1); open != nil && (open.Text == "(" || open.Text == "<") {
				fn := &ast.Function{
					Span: spanAt(cur), Name: cur.Text,
					Abstract: true, Visibility: "public", Complexity: 1,
				}
				p.advance()
				p.skipTypeParams()
				p.readParams(fn)
				iface.Methods = append(iface.Methods, fn)
				p.skipUntil(";", "\n", "}")
				continue
			}
		}
		p.advance()
	}
	return iface
}

func (p *scriptParser) parseFunction() *ast.Function {
	if p.match("async") {
		p.advance()
	}
	start := p.advance() // function
	p.consume("*")
	fn := &ast.Function{Span: spanAt(start), Visibility: "public"}
	if p.matchKind(token.Identifier) {
		fn.Name = p.advance().Text
	}
	p.skipTypeParams()
	p.readParams(fn)
	if p.consume(":") {
		if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
			fn.ReturnType = p.advance().Text
		}
	}
	if p.match("{") {
		p.observeBody(fn)
	} else {
		fn.Complexity = 1
	}
	return fn
}

func (p *scriptParser) readParams(fn *ast.Function) {
	if !p.consume("(") {
		return
	}
	depth := 1
	expectName := true
	for !p.done() && depth > 0 {
		cur := p.current()
		switch cur.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 1 {
				expectName = true
			}
		case ":", "=":
			expectName = false
		default:
			if depth == 1 && expectName && cur.Kind == token.Identifier {
				fn.Params = append(fn.Params, cur.Text)
				expectName = false
			}
		}
		p.advance()
	}
}

func (p *scriptParser) skipTypeParams() {
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

func (p *scriptParser) skipParens() {
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

func (p *scriptParser) nextTextIs(text string) bool {
	next := p.peek(1)
	return next != nil && next.Text == text
}

// # internal/engine/parser/swift.go
package parser

import (
	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// swiftParser reads Swift declarations. Extensions contribute their methods
// to the extended type when it is declared in the same file.
type swiftParser struct {
	*cursor
}

var swiftAccess = map[string]string{
	"public": "public", "open": "public", "internal": "public",
	"private": "private", "fileprivate": "private",
}

func (p *swiftParser) parse() *ast.Module {
	mod := &ast.Module{}
	pending := make(map[string][]*ast.Function)
	classIndex := make(map[string]*ast.Class)

	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("import"):
			start := p.advance()
			if p.matchKind(token.Identifier) {
				name := p.advance().Text
				mod.Imports = append(mod.Imports, &ast.Import{
					Span: spanAt(start), Target: name, Names: []string{name},
				})
			}
		case p.match("class", "struct", "enum", "actor"):
			cls := p.parseClass("public", classIndex)
			finalizeClass(cls)
			mod.Classes = append(mod.Classes, cls)
		case p.match("protocol"):
			mod.Interfaces = append(mod.Interfaces, p.parseProtocol())
		case p.match("extension"):
			p.parseExtension(pending)
		case p.match("func"):
			mod.Functions = append(mod.Functions, p.parseFunc("public", false))
		case isSwiftAccessWord(p.currentText()):
			visibility := swiftAccess[p.advance().Text]
			if p.match("(") {
				p.skipParenGroup()
			}
			switch {
			case p.match("class", "struct", "enum", "actor"):
				cls := p.parseClass(visibility, classIndex)
				finalizeClass(cls)
				mod.Classes = append(mod.Classes, cls)
			case p.match("func"):
				fn := p.parseFunc(visibility, false)
				mod.Functions = append(mod.Functions, fn)
			case p.match("protocol"):
				mod.Interfaces = append(mod.Interfaces, p.parseProtocol())
			}
		default:
			p.advance()
		}
	}

	for target, methods := range pending {
		if cls, ok := classIndex[target]; ok {
			cls.Methods = append(cls.Methods, methods...)
			finalizeClass(cls)
		} else {
			mod.Functions = append(mod.Functions, methods...)
		}
	}
	return mod
}

func (p *swiftParser) parseClass(visibility string, classIndex map[string]*ast.Class) *ast.Class {
	start := p.advance() // class/struct/enum/actor
	cls := &ast.Class{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
		if classIndex != nil {
			classIndex[cls.Name] = cls
		}
	}
	p.skipAngles()
	if p.consume(":") {
		for !p.done() && !p.match("{") {
			if p.matchKind(token.Identifier) {
				cls.Bases = append(cls.Bases, p.current().Text)
			}
			p.advance()
		}
	}
	p.parseTypeBody(cls, visibility)
	return cls
}

func (p *swiftParser) parseTypeBody(cls *ast.Class, defaultVisibility string) {
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

		visibility := defaultVisibility
		static := false
		for {
			switch {
			case isSwiftAccessWord(p.currentText()):
				visibility = swiftAccess[p.advance().Text]
				if p.match("(") {
					p.skipParenGroup()
				}
				continue
			case p.match("static", "class") && p.nextTextIs("func", "var", "let"):
				static = true
				p.advance()
				continue
			case p.match("final", "override", "lazy", "weak", "mutating", "convenience", "required", "@"):
				if p.consume("@") {
					if p.matchKind(token.Identifier) {
						p.advance()
					}
					if p.match("(") {
						p.skipParenGroup()
					}
				} else {
					p.advance()
				}
				continue
			}
			break
		}

		switch {
		case p.match("func"):
			fn := p.parseFunc(visibility, static)
			cls.Methods = append(cls.Methods, fn)
		case p.match("init", "deinit"):
			fn := p.parseInit(visibility)
			cls.Methods = append(cls.Methods, fn)
		case p.match("var", "let"):
			p.parseStoredProperty(cls, visibility)
		case p.match("class", "struct", "enum"):
			nested := p.parseClass(visibility, nil)
			finalizeClass(nested)
			cls.Nested = append(cls.Nested, nested)
		case p.match("{"):
			p.skipBraceBlock()
		default:
			p.advance()
		}
	}
}

func (p *swiftParser) parseStoredProperty(cls *ast.Class, visibility string) {
	p.advance() // var/let
	if !p.matchKind(token.Identifier) {
		return
	}
	cur := p.current()
	attr := &ast.Attribute{Span: spanAt(cur), Name: cur.Text, Visibility: visibility}
	p.advance()
	if p.consume(":") {
		if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
			attr.TypeText = p.current().Text
		}
	}
	cls.Attributes = append(cls.Attributes, attr)
	// computed property accessors or an initializer expression follow
	for !p.done() && !p.matchKind(token.Newline) {
		if p.match("{") {
			p.skipBraceBlock()
			break
		}
		if p.match("(") {
			p.skipParenGroup()
			continue
		}
		p.advance()
	}
}

func (p *swiftParser) parseProtocol() *ast.Interface {
	start := p.advance() // protocol
	iface := &ast.Interface{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		iface.Name = p.advance().Text
	}
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
		case depth == 1 && p.match("func"):
			fn := p.parseFunc("public", false)
			fn.Abstract = true
			iface.Methods = append(iface.Methods, fn)
		default:
			p.advance()
		}
	}
	return iface
}

func (p *swiftParser) parseExtension(pending map[string][]*ast.Function) {
	p.advance() // extension
	var target string
	if p.matchKind(token.Identifier) {
		target = p.advance().Text
	}
	p.skipUntil("{")
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
		case depth == 1 && p.match("func"):
			pending[target] = append(pending[target], p.parseFunc("public", false))
		default:
			p.advance()
		}
	}
}

func (p *swiftParser) parseFunc(visibility string, static bool) *ast.Function {
	start := p.advance() // func
	fn := &ast.Function{Span: spanAt(start), Visibility: visibility, Static: static}
	if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
		fn.Name = p.advance().Text
	}
	p.skipAngles()
	p.readParams(fn)
	if p.consume("->") {
		if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
			fn.ReturnType = p.advance().Text
		}
	}
	// where clauses and throws sit between signature and body
	for !p.done() && !p.match("{") && !p.matchKind(token.Newline) {
		p.advance()
	}
	if p.match("{") {
		p.observeBody(fn)
	} else {
		fn.Complexity = 1
	}
	return fn
}

func (p *swiftParser) parseInit(visibility string) *ast.Function {
	start := p.advance() // init/deinit
	fn := &ast.Function{Span: spanAt(start), Name: start.Text, Visibility: visibility}
	p.consume("?")
	p.readParams(fn)
	for !p.done() && !p.match("{") && !p.matchKind(token.Newline) {
		p.advance()
	}
	if p.match("{") {
		p.observeBody(fn)
	} else {
		fn.Complexity = 1
	}
	return fn
}

func (p *swiftParser) readParams(fn *ast.Function) {
	if !p.consume("(") {
		return
	}
	depth := 1
	for !p.done() && depth > 0 {
		cur := p.current()
		switch cur.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		default:
			if depth == 1 && cur.Kind == token.Identifier && p.nextTextIs(":") {
				fn.Params = append(fn.Params, cur.Text)
			}
		}
		p.advance()
	}
}

func (p *swiftParser) skipAngles() {
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

func (p *swiftParser) skipParenGroup() {
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

func (p *swiftParser) currentText() string {
	if cur := p.current(); cur != nil {
		return cur.Text
	}
	return ""
}

func (p *swiftParser) nextTextIs(values ...string) bool {
	next := p.peek(1)
	if next == nil {
		return false
	}
	for _, v := range values {
		if next.Text == v {
			return true
		}
	}
	return false
}

func isSwiftAccessWord(text string) bool {
	_, ok := swiftAccess[text]
	return ok
}

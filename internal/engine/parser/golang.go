// # internal/engine/parser/golang.go
package parser

import (
	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// goParser reads Go declarations. Methods declared with a receiver are
// attached to their struct type regardless of declaration order.
type goParser struct {
	*cursor
}

func (p *goParser) parse() *ast.Module {
	mod := &ast.Module{}
	pending := make(map[string][]*ast.Function) // receiver type -> methods
	classIndex := make(map[string]*ast.Class)

	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("package"):
			p.advance()
			if p.matchKind(token.Identifier) {
				mod.Name = p.advance().Text
			}
		case p.match("import"):
			p.parseImport(mod)
		case p.match("type"):
			p.parseType(mod, classIndex)
		case p.match("func"):
			p.parseFunc(mod, pending)
		default:
			p.advance()
		}
	}

	for recv, methods := range pending {
		if cls, ok := classIndex[recv]; ok {
			cls.Methods = append(cls.Methods, methods...)
		} else {
			// methods on a type alias or unseen type still count as functions
			mod.Functions = append(mod.Functions, methods...)
		}
	}
	for _, cls := range mod.Classes {
		finalizeClass(cls)
	}
	return mod
}

func (p *goParser) parseImport(mod *ast.Module) {
	start := p.advance()
	if p.consume("(") {
		for !p.done() && !p.match(")") {
			if p.matchKind(token.Newline) {
				p.advance()
				continue
			}
			p.readImportLine(mod, start)
		}
		p.consume(")")
		return
	}
	p.readImportLine(mod, start)
}

func (p *goParser) readImportLine(mod *ast.Module, start *token.Token) {
	var alias string
	if p.matchKind(token.Identifier) || p.match("_") || p.match(".") {
		alias = p.advance().Text
	}
	if !p.matchKind(token.String) {
		p.skipUntil("\n", ")")
		return
	}
	target := p.advance().Text
	name := alias
	if name == "" || name == "_" || name == "." {
		name = lastPathSegment(target)
	}
	mod.Imports = append(mod.Imports, &ast.Import{
		Span: spanAt(start), Target: target, Names: []string{name},
	})
}

func (p *goParser) parseType(mod *ast.Module, classIndex map[string]*ast.Class) {
	p.advance() // type
	if p.consume("(") {
		for !p.done() && !p.match(")") {
			if p.matchKind(token.Newline) {
				p.advance()
				continue
			}
			p.parseTypeSpec(mod, classIndex)
		}
		p.consume(")")
		return
	}
	p.parseTypeSpec(mod, classIndex)
}

func (p *goParser) parseTypeSpec(mod *ast.Module, classIndex map[string]*ast.Class) {
	if !p.matchKind(token.Identifier) {
		p.advance()
		return
	}
	nameTok := p.advance()
	p.skipBrackets() // type parameters

	switch {
	case p.match("struct"):
		p.advance()
		cls := &ast.Class{Span: spanAt(nameTok), Name: nameTok.Text}
		p.parseStructBody(cls)
		mod.Classes = append(mod.Classes, cls)
		classIndex[cls.Name] = cls
	case p.match("interface"):
		p.advance()
		iface := &ast.Interface{Span: spanAt(nameTok), Name: nameTok.Text}
		p.parseInterfaceBody(iface)
		mod.Interfaces = append(mod.Interfaces, iface)
	default:
		// alias or named basic type; nothing structural to record
		p.skipUntil("\n", ")")
	}
}

func (p *goParser) parseStructBody(cls *ast.Class) {
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
		if p.match("{") {
			p.skipBraceBlock()
			continue
		}
		if p.matchKind(token.Identifier) {
			cur := p.current()
			// embedded types double as bases for inheritance-like counting
			if next := p.peek(1); next != nil && (next.Kind == token.Newline || next.Text == "}") {
				cls.Bases = append(cls.Bases, cur.Text)
				p.advance()
				continue
			}
			attr := &ast.Attribute{Span: spanAt(cur), Name: cur.Text, Visibility: goVisibility(cur.Text)}
			p.advance()
			// grouped fields: a, b int
			for p.consume(",") {
				if p.matchKind(token.Identifier) {
					cls.Attributes = append(cls.Attributes, &ast.Attribute{
						Span: spanAt(p.current()), Name: p.current().Text,
						Visibility: goVisibility(p.current().Text),
					})
					p.advance()
				}
			}
			if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
				attr.TypeText = p.current().Text
			}
			cls.Attributes = append(cls.Attributes, attr)
			p.skipFieldTail()
			continue
		}
		p.advance()
	}
}

// skipFieldTail consumes a field's type expression and tag through the end
// of the line, balancing any brace or bracket groups in the type.
func (p *goParser) skipFieldTail() {
	for !p.done() {
		switch {
		case p.match("{"):
			p.skipBraceBlock()
		case p.matchKind(token.Newline):
			p.advance()
			return
		case p.match("}"):
			return
		default:
			p.advance()
		}
	}
}

func (p *goParser) parseInterfaceBody(iface *ast.Interface) {
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
			iface.EndLine = end.Line
			iface.EndColumn = end.Column
			return
		}
		if p.matchKind(token.Identifier) {
			cur := p.current()
			if open := p.peek(1); open != nil && open.Text == "(" {
				fn := &ast.Function{
					Span: spanAt(cur), Name: cur.Text,
					Abstract: true, Visibility: goVisibility(cur.Text), Complexity: 1,
				}
				p.advance()
				p.readParams(fn)
				iface.Methods = append(iface.Methods, fn)
				p.skipUntil("\n", "}")
				continue
			}
			// embedded interface
			iface.Extends = append(iface.Extends, cur.Text)
			p.advance()
			continue
		}
		p.advance()
	}
}

func (p *goParser) parseFunc(mod *ast.Module, pending map[string][]*ast.Function) {
	start := p.advance() // func

	var receiver string
	if p.match("(") {
		receiver = p.readReceiver()
	}

	fn := &ast.Function{Span: spanAt(start), Visibility: "public"}
	if p.matchKind(token.Identifier) {
		fn.Name = p.advance().Text
		fn.Visibility = goVisibility(fn.Name)
	}
	p.skipBrackets()
	p.readParams(fn)

	// results: single type, or parenthesized list
	if p.match("(") {
		p.skipParenGroup()
	} else if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) || p.match("*") {
		p.consume("*")
		if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
			fn.ReturnType = p.advance().Text
		}
	}

	if p.match("{") {
		p.observeBody(fn)
	} else {
		fn.Complexity = 1
	}

	if receiver != "" {
		pending[receiver] = append(pending[receiver], fn)
		return
	}
	mod.Functions = append(mod.Functions, fn)
}

// readReceiver returns the receiver's base type name from "(r *Type)".
func (p *goParser) readReceiver() string {
	p.consume("(")
	var last string
	depth := 1
	for !p.done() && depth > 0 {
		cur := p.current()
		switch cur.Text {
		case "(":
			depth++
		case ")":
			depth--
		default:
			if cur.Kind == token.Identifier {
				last = cur.Text
			}
		}
		p.advance()
	}
	return last
}

func (p *goParser) readParams(fn *ast.Function) {
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
		case ",":
		default:
			// first identifier after a boundary is the parameter name
			if depth == 1 && cur.Kind == token.Identifier {
				if prev := p.peek(-1); prev != nil && (prev.Text == "(" || prev.Text == ",") {
					fn.Params = append(fn.Params, cur.Text)
				}
			}
		}
		p.advance()
	}
}

func (p *goParser) skipBrackets() {
	if !p.match("[") {
		return
	}
	p.advance()
	depth := 1
	for !p.done() && depth > 0 {
		switch p.current().Text {
		case "[":
			depth++
		case "]":
			depth--
		}
		p.advance()
	}
}

func (p *goParser) skipParenGroup() {
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

func goVisibility(name string) string {
	if name == "" {
		return "public"
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return "public"
	}
	return "private"
}

func lastPathSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// # internal/engine/parser/java.go
package parser

import (
	"strings"

	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// javaParser also covers Kotlin and Scala sources; the declaration keywords
// overlap enough for structural counting.
type javaParser struct {
	*cursor
}

var javaModifiers = map[string]bool{
	"public": true, "private": true, "protected": true,
	"static": true, "final": true, "abstract": true,
	"synchronized": true, "native": true, "transient": true,
	"volatile": true, "default": true, "open": true, "sealed": true,
	"override": true, "data": true,
}

func (p *javaParser) parse() *ast.Module {
	mod := &ast.Module{}
	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("package"):
			p.advance()
			mod.Name = p.readDottedName()
			p.skipUntil(";", "\n")
		case p.match("import"):
			p.parseImport(mod)
		case p.match("@"):
			p.skipAnnotation()
		default:
			mods := p.readModifiers()
			switch {
			case p.match("class", "enum", "record"):
				cls := p.parseClass(mods)
				finalizeClass(cls)
				mod.Classes = append(mod.Classes, cls)
			case p.match("interface"):
				mod.Interfaces = append(mod.Interfaces, p.parseInterface())
			default:
				p.advance()
			}
		}
	}
	return mod
}

func (p *javaParser) parseImport(mod *ast.Module) {
	start := p.advance()
	p.consume("static")
	target := p.readDottedName()
	imp := &ast.Import{Span: spanAt(start), Target: target}
	if p.match(".") {
		p.advance()
	}
	if p.match("*") {
		imp.Names = append(imp.Names, "*")
		p.advance()
	} else if name := lastSegment(target); name != "" {
		imp.Names = append(imp.Names, name)
	}
	mod.Imports = append(mod.Imports, imp)
	p.skipUntil(";", "\n")
	p.advance()
}

func (p *javaParser) readModifiers() map[string]bool {
	mods := make(map[string]bool)
	for !p.done() {
		cur := p.current()
		if cur.Kind == token.Keyword && javaModifiers[cur.Text] {
			mods[cur.Text] = true
			p.advance()
			continue
		}
		if cur.Text == "@" {
			p.skipAnnotation()
			continue
		}
		break
	}
	return mods
}

func (p *javaParser) skipAnnotation() {
	p.advance() // @
	p.readDottedName()
	if p.match("(") {
		p.skipBalancedParens()
	}
}

func (p *javaParser) parseClass(mods map[string]bool) *ast.Class {
	start := p.advance() // class/enum/record
	cls := &ast.Class{Span: spanAt(start), Abstract: mods["abstract"]}

	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
	}
	p.skipGenerics()
	if p.match("(") { // record/kotlin primary constructor
		p.skipBalancedParens()
	}
	for p.match("extends", "implements", ":") {
		p.advance()
		for !p.done() && !p.match("{") && !p.match("extends", "implements") {
			if p.matchKind(token.Identifier) {
				cls.Bases = append(cls.Bases, p.current().Text)
				p.advance()
				p.skipGenerics()
				if p.match("(") {
					p.skipBalancedParens()
				}
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

func (p *javaParser) parseClassBody(cls *ast.Class) {
	if !p.consume("{") {
		return
	}
	depth := 1
	for !p.done() && depth > 0 {
		if p.matchKind(token.Newline) {
			p.advance()
			continue
		}
		if p.match("}") {
			depth--
			end := p.advance()
			if depth == 0 {
				cls.EndLine = end.Line
				cls.EndColumn = end.Column
			}
			continue
		}
		if p.match("@") {
			p.skipAnnotation()
			continue
		}
		mods := p.readModifiers()
		switch {
		case p.match("class", "enum", "record"):
			nested := p.parseClass(mods)
			finalizeClass(nested)
			cls.Nested = append(cls.Nested, nested)
		case p.match("interface"):
			p.advance()
			p.skipUntil("{")
			p.skipBraceBlock()
		default:
			if member, isMethod := p.parseMember(mods); member != nil {
				if isMethod {
					cls.Methods = append(cls.Methods, member.(*ast.Function))
				} else {
					cls.Attributes = append(cls.Attributes, member.(*ast.Attribute))
				}
			}
		}
	}
}

// parseMember distinguishes methods from fields by looking for a parameter
// list after the member name.
func (p *javaParser) parseMember(mods map[string]bool) (ast.Node, bool) {
	// Scan the declaration head for "name (" or "name =" / "name ;".
	var typeText, name string
	var nameTok *token.Token
	for !p.done() {
		cur := p.current()
		switch {
		case cur.Text == "{" || cur.Text == "}" || cur.Text == ";" || cur.Kind == token.Newline:
			// field without initializer, or something unrecognised
			if name != "" {
				p.consume(";")
				return &ast.Attribute{
					Span: spanAt(nameTok), Name: name,
					TypeText: typeText, Visibility: javaVisibility(mods),
				}, false
			}
			if cur.Text == "{" {
				// static/instance initializer block
				p.skipBraceBlock()
				return nil, false
			}
			if cur.Text == "}" {
				return nil, false
			}
			p.advance()
			return nil, false
		case cur.Text == "(":
			if name == "" {
				p.skipBalancedParens()
				continue
			}
			return p.finishMethod(nameTok, name, typeText, mods), true
		case cur.Text == "=":
			p.skipUntil(";", "\n")
			p.consume(";")
			if name == "" {
				return nil, false
			}
			return &ast.Attribute{
				Span: spanAt(nameTok), Name: name,
				TypeText: typeText, Visibility: javaVisibility(mods),
			}, false
		case cur.Kind == token.Identifier || cur.Kind == token.Keyword:
			if name != "" {
				typeText = name
			}
			name = cur.Text
			nameTok = cur
			p.advance()
			p.skipGenerics()
		case cur.Text == "<":
			p.skipGenerics()
		default:
			p.advance()
		}
	}
	return nil, false
}

func (p *javaParser) finishMethod(nameTok *token.Token, name, returnType string, mods map[string]bool) *ast.Function {
	fn := &ast.Function{
		Span:       spanAt(nameTok),
		Name:       name,
		ReturnType: returnType,
		Abstract:   mods["abstract"],
		Static:     mods["static"],
		Visibility: javaVisibility(mods),
	}
	p.readParams(fn)
	p.skipUntil("{", ";", "\n")
	if p.match("{") {
		p.observeBody(fn)
	} else {
		// abstract or interface-style body-less declaration
		p.consume(";")
		fn.Complexity = 1
	}
	return fn
}

func (p *javaParser) readParams(fn *ast.Function) {
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
			// default value; the name was the token before it
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

func (p *javaParser) parseInterface() *ast.Interface {
	start := p.advance() // interface
	iface := &ast.Interface{Span: spanAt(start)}
	if p.matchKind(token.Identifier) {
		iface.Name = p.advance().Text
	}
	p.skipGenerics()
	if p.consume("extends") || p.consume(":") {
		for !p.done() && !p.match("{") {
			if p.matchKind(token.Identifier) {
				iface.Extends = append(iface.Extends, p.current().Text)
			}
			p.advance()
		}
	}
	p.skipUntil("{")
	if !p.consume("{") {
		return iface
	}
	depth := 1
	for !p.done() && depth > 0 {
		if p.match("{") {
			depth++
			p.advance()
			continue
		}
		if p.match("}") {
			depth--
			end := p.advance()
			if depth == 0 {
				iface.EndLine = end.Line
				iface.EndColumn = end.Column
			}
			continue
		}
		if depth == 1 && p.matchKind(token.Identifier) {
			if open := p.peek(1); open != nil && open.Text == "(" {
				cur := p.current()
				fn := &ast.Function{
					Span: spanAt(cur), Name: cur.Text,
					Abstract: true, Visibility: "public", Complexity: 1,
				}
				p.advance()
				p.readParams(fn)
				if p.match("{") { // default method
					fn.Abstract = false
					p.observeBody(fn)
				}
				iface.Methods = append(iface.Methods, fn)
				continue
			}
		}
		p.advance()
	}
	return iface
}

func (p *javaParser) readDottedName() string {
	var name strings.Builder
	for !p.done() {
		cur := p.current()
		if cur.Kind == token.Identifier {
			name.WriteString(cur.Text)
			p.advance()
			continue
		}
		// only take a dot when another segment follows
		if cur.Text == "." {
			if next := p.peek(1); next != nil && next.Kind == token.Identifier {
				name.WriteString(".")
				p.advance()
				continue
			}
		}
		break
	}
	return name.String()
}

// skipGenerics consumes a balanced <...> type-parameter list if one starts
// at the cursor.
func (p *javaParser) skipGenerics() {
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
			// not generics after all; bail without consuming
			return
		}
		p.advance()
	}
}

func (p *javaParser) skipBalancedParens() {
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

func javaVisibility(mods map[string]bool) string {
	switch {
	case mods["private"]:
		return "private"
	case mods["protected"]:
		return "protected"
	default:
		return "public"
	}
}

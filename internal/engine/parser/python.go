// # internal/engine/parser/python.go
package parser

import (
	"strings"

	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// pythonParser handles the indentation-based dialect: a declaration body
// continues while subsequent lines are more indented than the header line.
type pythonParser struct {
	*cursor
}

var abstractBases = map[string]bool{"ABC": true, "ABCMeta": true, "Protocol": true}

func (p *pythonParser) parse() *ast.Module {
	mod := &ast.Module{}
	for !p.done() {
		switch {
		case p.matchKind(token.Newline):
			p.advance()
		case p.match("import"):
			p.parseImport(mod)
		case p.match("from"):
			p.parseFromImport(mod)
		case p.match("class"):
			cls := p.parseClass(p.current().Column)
			finalizeClass(cls)
			mod.Classes = append(mod.Classes, cls)
		case p.match("def", "async"):
			mod.Functions = append(mod.Functions, p.parseFunction(p.current().Column))
		case p.match("@"):
			decorators := p.parseDecorators()
			switch {
			case p.match("class"):
				cls := p.parseClass(p.current().Column)
				cls.Decorators = decorators
				finalizeClass(cls)
				mod.Classes = append(mod.Classes, cls)
			case p.match("def", "async"):
				fn := p.parseFunction(p.current().Column)
				fn.Decorators = decorators
				if hasAbstractDecorator(decorators) {
					fn.Abstract = true
				}
				mod.Functions = append(mod.Functions, fn)
			}
		default:
			p.advance()
		}
	}
	return mod
}

// parseImport covers "import a.b, c as d".
func (p *pythonParser) parseImport(mod *ast.Module) {
	start := p.advance()
	for !p.done() && !p.matchKind(token.Newline) {
		target := p.parseDottedName()
		if target == "" {
			p.advance()
			continue
		}
		imp := &ast.Import{Span: spanAt(start), Target: target}
		if p.consume("as") {
			if p.matchKind(token.Identifier) {
				imp.Names = append(imp.Names, p.advance().Text)
			}
		} else {
			imp.Names = append(imp.Names, lastSegment(target))
		}
		mod.Imports = append(mod.Imports, imp)
		if !p.consume(",") {
			break
		}
	}
	p.skipUntilNewline()
}

// parseFromImport covers "from a.b import x, y as z" and relative forms.
func (p *pythonParser) parseFromImport(mod *ast.Module) {
	start := p.advance()
	var target strings.Builder
	for !p.done() && !p.match("import") && !p.matchKind(token.Newline) {
		cur := p.current()
		if cur.Kind == token.Identifier || cur.Text == "." {
			target.WriteString(cur.Text)
		}
		p.advance()
	}
	imp := &ast.Import{Span: spanAt(start), Target: target.String(), IsFrom: true}
	p.consume("import")
	for !p.done() && !p.matchKind(token.Newline) {
		if p.matchKind(token.Identifier) && !p.match("as") {
			imp.Names = append(imp.Names, p.current().Text)
		}
		p.advance()
	}
	mod.Imports = append(mod.Imports, imp)
}

func (p *pythonParser) parseDecorators() []string {
	var decorators []string
	for p.match("@") {
		p.advance()
		if name := p.parseDottedName(); name != "" {
			decorators = append(decorators, name)
		}
		if p.match("(") {
			p.skipBalanced("(", ")")
		}
		p.skipUntilNewline()
		p.skipNewlines()
	}
	return decorators
}

func (p *pythonParser) parseClass(headerCol int) *ast.Class {
	start := p.advance() // class
	cls := &ast.Class{Span: spanAt(start)}

	if p.matchKind(token.Identifier) {
		cls.Name = p.advance().Text
	}

	if p.match("(") {
		p.advance()
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
					cls.Bases = append(cls.Bases, cur.Text)
				}
			}
			p.advance()
		}
	}
	for _, base := range cls.Bases {
		if abstractBases[base] {
			cls.Abstract = true
		}
	}
	p.consume(":")

	for !p.done() {
		if p.matchKind(token.Newline) {
			p.advance()
			continue
		}
		tok := p.current()
		if tok.Column <= headerCol {
			break
		}
		switch {
		case p.match("def", "async"):
			method := p.parseFunction(tok.Column)
			cls.Methods = append(cls.Methods, method)
			if method.Abstract {
				cls.Abstract = true
			}
		case p.match("@"):
			decorators := p.parseDecorators()
			if p.match("def", "async") {
				method := p.parseFunction(p.current().Column)
				method.Decorators = decorators
				if hasAbstractDecorator(decorators) {
					method.Abstract = true
					cls.Abstract = true
				}
				if hasDecorator(decorators, "staticmethod") {
					method.Static = true
				}
				cls.Methods = append(cls.Methods, method)
			}
		case p.match("class"):
			nested := p.parseClass(tok.Column)
			finalizeClass(nested)
			cls.Nested = append(cls.Nested, nested)
		case tok.Kind == token.Identifier && p.nextIs("=", ":"):
			attr := &ast.Attribute{Span: spanAt(tok), Name: tok.Text, Visibility: pythonVisibility(tok.Text)}
			cls.Attributes = append(cls.Attributes, attr)
			p.skipUntilNewline()
		default:
			p.advance()
		}
	}
	if end := p.peek(-1); end != nil {
		cls.EndLine = end.Line
		cls.EndColumn = end.Column
	}
	return cls
}

func (p *pythonParser) parseFunction(headerCol int) *ast.Function {
	if p.match("async") {
		p.advance()
	}
	start := p.advance() // def
	fn := &ast.Function{Span: spanAt(start), Visibility: "public"}

	if p.matchKind(token.Identifier) {
		fn.Name = p.advance().Text
		fn.Visibility = pythonVisibility(fn.Name)
	}

	if p.match("(") {
		p.advance()
		depth := 1
		for !p.done() && depth > 0 {
			cur := p.current()
			switch {
			case cur.Text == "(" || cur.Text == "[" || cur.Text == "{":
				depth++
			case cur.Text == ")" || cur.Text == "]" || cur.Text == "}":
				depth--
			case depth == 1 && cur.Kind == token.Identifier:
				// parameter names only, not annotations or defaults
				if prev := p.peek(-1); prev != nil && (prev.Text == "(" || prev.Text == "," || prev.Text == "*") {
					fn.Params = append(fn.Params, cur.Text)
				}
			}
			p.advance()
		}
	}

	if p.match("->") {
		p.advance()
		if p.matchKind(token.Identifier) || p.matchKind(token.Keyword) {
			fn.ReturnType = p.advance().Text
		}
	}
	p.consume(":")

	p.scanIndentBody(fn, headerCol)
	return fn
}

// scanIndentBody consumes the indentation block under a def header while
// recording the same body observations observeBody collects for brace
// languages.
func (p *pythonParser) scanIndentBody(fn *ast.Function, headerCol int) {
	complexity := 1
	accessed := make(map[string]bool)
	called := make(map[string]bool)

	for !p.done() {
		if p.matchKind(token.Newline) {
			p.advance()
			continue
		}
		cur := p.current()
		if cur.Column <= headerCol {
			break
		}
		switch {
		case cur.Kind == token.Keyword && decisionWords[cur.Text]:
			complexity++
		case cur.Text == "self":
			if dot := p.peek(1); dot != nil && dot.Text == "." {
				if name := p.peek(2); name != nil && name.Kind == token.Identifier {
					if open := p.peek(3); open != nil && open.Text == "(" {
						called[name.Text] = true
					} else {
						accessed[name.Text] = true
					}
				}
			}
		case cur.Kind == token.Identifier:
			if open := p.peek(1); open != nil && open.Text == "(" {
				called[cur.Text] = true
			}
		}
		p.advance()
	}

	fn.Complexity = complexity
	if len(accessed) > 0 {
		fn.AccessedAttrs = accessed
	}
	if len(called) > 0 {
		fn.CalledMethods = called
	}
	if end := p.peek(-1); end != nil {
		fn.EndLine = end.Line
		fn.EndColumn = end.Column
	}
}

func (p *pythonParser) parseDottedName() string {
	if !p.matchKind(token.Identifier) && !p.match(".") {
		return ""
	}
	var name strings.Builder
	for !p.done() {
		cur := p.current()
		if cur.Kind == token.Identifier || cur.Text == "." {
			name.WriteString(cur.Text)
			p.advance()
			continue
		}
		break
	}
	return name.String()
}

func (p *pythonParser) skipUntilNewline() {
	for !p.done() && !p.matchKind(token.Newline) {
		p.advance()
	}
}

func (p *pythonParser) skipBalanced(open, close string) {
	if !p.match(open) {
		return
	}
	p.advance()
	depth := 1
	for !p.done() && depth > 0 {
		if p.match(open) {
			depth++
		} else if p.match(close) {
			depth--
		}
		p.advance()
	}
}

func (p *pythonParser) nextIs(values ...string) bool {
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

func hasAbstractDecorator(decorators []string) bool {
	for _, d := range decorators {
		if strings.Contains(d, "abstractmethod") {
			return true
		}
	}
	return false
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name || strings.HasSuffix(d, "."+name) {
			return true
		}
	}
	return false
}

func pythonVisibility(name string) string {
	if strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__") {
		return "private"
	}
	if strings.HasPrefix(name, "_") {
		return "protected"
	}
	return "public"
}

func lastSegment(dotted string) string {
	if idx := strings.LastIndex(dotted, "."); idx >= 0 && idx+1 < len(dotted) {
		return dotted[idx+1:]
	}
	return dotted
}

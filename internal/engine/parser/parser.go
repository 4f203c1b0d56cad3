// # internal/engine/parser/parser.go

// Package parser turns a token stream into the uniform declaration tree.
// It is pattern-driven, not grammar-driven: each language scanner looks for
// declaration-introducing keyword sequences and reads just enough of what
// follows to build Module/Class/Interface/Function/Import/Attribute nodes.
// Parsing is total; source with no recognisable declarations produces an
// empty Module.
package parser

import (
	"mainseq/internal/engine/ast"
	"mainseq/internal/engine/token"
)

// Parse builds the declaration tree for one source file. The extension
// selects the language; unknown extensions are scanned with the generic
// C-style profile.
func Parse(source, ext string) *ast.Module {
	lang := token.LanguageForExtension(ext)
	profile := token.ProfileForLanguage(lang)
	tokens := token.Tokenize(source, profile)

	switch lang {
	case "python":
		return (&pythonParser{cursor: newCursor(tokens)}).parse()
	case "java":
		return (&javaParser{cursor: newCursor(tokens)}).parse()
	case "javascript":
		return (&scriptParser{cursor: newCursor(tokens)}).parse()
	case "typescript":
		return (&scriptParser{cursor: newCursor(tokens), typescript: true}).parse()
	case "go":
		return (&goParser{cursor: newCursor(tokens)}).parse()
	case "rust":
		return (&rustParser{cursor: newCursor(tokens)}).parse()
	case "swift":
		return (&swiftParser{cursor: newCursor(tokens)}).parse()
	default:
		// cpp and the generic fallback share the C-family scanner.
		return (&cFamilyParser{cursor: newCursor(tokens)}).parse()
	}
}

// cursor walks a token stream with comments stripped. Strings stay in the
// stream as opaque String tokens, so a declaration keyword inside a string
// or comment can never start a declaration.
type cursor struct {
	tokens []token.Token
	pos    int
}

func newCursor(tokens []token.Token) *cursor {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.Comment {
			continue
		}
		filtered = append(filtered, t)
	}
	return &cursor{tokens: filtered}
}

func (c *cursor) current() *token.Token {
	if c.pos < len(c.tokens) {
		return &c.tokens[c.pos]
	}
	return nil
}

func (c *cursor) peek(offset int) *token.Token {
	if c.pos+offset >= 0 && c.pos+offset < len(c.tokens) {
		return &c.tokens[c.pos+offset]
	}
	return nil
}

func (c *cursor) advance() *token.Token {
	t := c.current()
	c.pos++
	return t
}

func (c *cursor) done() bool {
	cur := c.current()
	return cur == nil || cur.Kind == token.EOF
}

func (c *cursor) match(values ...string) bool {
	cur := c.current()
	if cur == nil {
		return false
	}
	for _, v := range values {
		if cur.Text == v {
			return true
		}
	}
	return false
}

func (c *cursor) matchKind(kind token.Kind) bool {
	cur := c.current()
	return cur != nil && cur.Kind == kind
}

func (c *cursor) consume(value string) bool {
	if c.match(value) {
		c.advance()
		return true
	}
	return false
}

func (c *cursor) skipUntil(values ...string) {
	for !c.done() && !c.match(values...) {
		c.advance()
	}
}

func (c *cursor) skipNewlines() {
	for c.matchKind(token.Newline) {
		c.advance()
	}
}

func spanAt(t *token.Token) ast.Span {
	if t == nil {
		return ast.Span{}
	}
	return ast.Span{Line: t.Line, Column: t.Column}
}

var decisionWords = map[string]bool{
	"if": true, "elif": true, "for": true, "while": true,
	"case": true, "catch": true, "except": true, "match": true,
	"loop": true, "select": true, "when": true, "and": true, "or": true,
}

// observeBody walks a balanced brace block starting at the opener, recording
// decision points, attribute accesses through self/this, and call targets.
// A truncated body simply closes at end of input.
func (c *cursor) observeBody(fn *ast.Function) {
	if !c.match("{") {
		return
	}
	c.advance()
	depth := 1
	complexity := 1
	accessed := make(map[string]bool)
	called := make(map[string]bool)

	for depth > 0 && !c.done() {
		cur := c.current()
		switch {
		case cur.Text == "{":
			depth++
		case cur.Text == "}":
			depth--
		case cur.Kind == token.Keyword && decisionWords[cur.Text]:
			complexity++
		case cur.Kind == token.Operator && (cur.Text == "&&" || cur.Text == "||"):
			complexity++
		case cur.Kind == token.Identifier || cur.Kind == token.Keyword:
			if cur.Text == "self" || cur.Text == "this" {
				if dot := c.peek(1); dot != nil && dot.Text == "." {
					if name := c.peek(2); name != nil && name.Kind == token.Identifier {
						if open := c.peek(3); open != nil && open.Text == "(" {
							called[name.Text] = true
						} else {
							accessed[name.Text] = true
						}
					}
				}
			} else if cur.Kind == token.Identifier {
				if open := c.peek(1); open != nil && open.Text == "(" {
					called[cur.Text] = true
				}
			}
		}
		c.advance()
	}

	fn.Complexity = complexity
	if len(accessed) > 0 {
		fn.AccessedAttrs = accessed
	}
	if len(called) > 0 {
		fn.CalledMethods = called
	}
	if end := c.peek(-1); end != nil {
		fn.EndLine = end.Line
		fn.EndColumn = end.Column
	}
}

// skipBraceBlock consumes a balanced { ... } region without recording
// anything. Truncated blocks close at end of input.
func (c *cursor) skipBraceBlock() {
	if !c.match("{") {
		return
	}
	c.advance()
	depth := 1
	for depth > 0 && !c.done() {
		if c.match("{") {
			depth++
		} else if c.match("}") {
			depth--
		}
		c.advance()
	}
}

// finalizeClass applies the shared abstractness rule: a class with at least
// one method where every method is abstract counts as abstract even without
// an explicit marker.
func finalizeClass(cls *ast.Class) {
	if cls.Abstract || len(cls.Methods) == 0 {
		return
	}
	for _, m := range cls.Methods {
		if !m.Abstract {
			return
		}
	}
	cls.Abstract = true
}

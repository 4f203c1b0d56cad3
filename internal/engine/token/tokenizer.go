// # internal/engine/token/tokenizer.go
package token

import "strings"

type state int

const (
	stateNormal state = iota
	stateSingleQuoted
	stateDoubleQuoted
	stateTripleSingle
	stateTripleDouble
	stateLineComment
	stateBlockComment
	stateTemplateString
)

// Tokenizer is a per-language lexical state machine. It is total: malformed
// input never fails, unterminated strings and comments are closed implicitly
// at end of input and still yield a token covering the consumed range.
type Tokenizer struct {
	source  string
	profile *Profile

	pos    int
	line   int
	column int
	state  state

	braceDepth   int
	parenDepth   int
	bracketDepth int
}

// NewTokenizer prepares a tokenizer for one source text. A nil profile
// selects the generic fallback.
func NewTokenizer(source string, profile *Profile) *Tokenizer {
	if profile == nil {
		profile = genericProfile
	}
	return &Tokenizer{
		source:  source,
		profile: profile,
		line:    1,
	}
}

// Tokenize scans source text into a token slice using the given profile.
func Tokenize(source string, profile *Profile) []Token {
	return NewTokenizer(source, profile).Tokenize()
}

// Tokenize consumes the whole source and returns the token stream,
// terminated by a single EOF token.
func (t *Tokenizer) Tokenize() []Token {
	var tokens []Token
	for t.pos < len(t.source) {
		if tok, ok := t.next(); ok {
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, Token{Kind: EOF, Line: t.line, Column: t.column})
	return tokens
}

// BraceDepth reports the current {} nesting level. Never negative.
func (t *Tokenizer) BraceDepth() int { return t.braceDepth }

// ParenDepth reports the current () nesting level. Never negative.
func (t *Tokenizer) ParenDepth() int { return t.parenDepth }

// BracketDepth reports the current [] nesting level. Never negative.
func (t *Tokenizer) BracketDepth() int { return t.bracketDepth }

func (t *Tokenizer) next() (Token, bool) {
	startLine := t.line
	startCol := t.column
	ch := t.source[t.pos]

	switch t.state {
	case stateNormal:
		return t.scanNormal(ch, startLine, startCol)
	case stateLineComment:
		return t.scanLineComment(startLine, startCol), true
	case stateBlockComment:
		return t.scanBlockComment(startLine, startCol), true
	case stateTemplateString:
		return t.scanTemplateString(startLine, startCol), true
	default:
		return t.scanString(startLine, startCol), true
	}
}

func (t *Tokenizer) scanNormal(ch byte, startLine, startCol int) (Token, bool) {
	switch {
	case ch == ' ' || ch == '\t' || ch == '\r':
		t.advance(1)
		return Token{}, false

	case ch == '\n':
		t.advance(1)
		return Token{Kind: Newline, Text: "\n", Line: startLine, Column: startCol}, true

	case t.profile.LineComment != "" && strings.HasPrefix(t.source[t.pos:], t.profile.LineComment):
		t.state = stateLineComment
		t.advance(len(t.profile.LineComment))
		return t.scanLineComment(startLine, startCol), true

	case t.profile.BlockCommentOpen != "" && strings.HasPrefix(t.source[t.pos:], t.profile.BlockCommentOpen):
		t.state = stateBlockComment
		t.advance(len(t.profile.BlockCommentOpen))
		return t.scanBlockComment(startLine, startCol), true

	case ch == '"' || ch == '\'':
		t.startString(ch)
		return t.scanString(startLine, startCol), true

	case ch == '`' && t.profile.TemplateStrings:
		t.state = stateTemplateString
		t.advance(1)
		return t.scanTemplateString(startLine, startCol), true

	case ch == '{' || ch == '}' || ch == '(' || ch == ')' || ch == '[' || ch == ']':
		t.updateDepth(ch)
		t.advance(1)
		return Token{Kind: Delimiter, Text: string(ch), Line: startLine, Column: startCol}, true

	case ch == '.' || ch == ',' || ch == ';' || ch == ':' || ch == '@':
		t.advance(1)
		return Token{Kind: Delimiter, Text: string(ch), Line: startLine, Column: startCol}, true

	case strings.IndexByte("+-*/%=<>!&|^~?", ch) >= 0:
		return t.scanOperator(startLine, startCol), true

	case isIdentStart(ch):
		return t.scanIdentifier(startLine, startCol), true

	case ch >= '0' && ch <= '9':
		return t.scanNumber(startLine, startCol), true
	}

	// Anything else is noise for our purposes.
	t.advance(1)
	return Token{}, false
}

func (t *Tokenizer) startString(quote byte) {
	if t.profile.TripleStrings && strings.HasPrefix(t.source[t.pos:], strings.Repeat(string(quote), 3)) {
		if quote == '"' {
			t.state = stateTripleDouble
		} else {
			t.state = stateTripleSingle
		}
		t.advance(3)
		return
	}
	if quote == '"' {
		t.state = stateDoubleQuoted
	} else {
		t.state = stateSingleQuoted
	}
	t.advance(1)
}

func (t *Tokenizer) scanString(startLine, startCol int) Token {
	var terminator string
	switch t.state {
	case stateSingleQuoted:
		terminator = "'"
	case stateDoubleQuoted:
		terminator = `"`
	case stateTripleSingle:
		terminator = "'''"
	case stateTripleDouble:
		terminator = `"""`
	}

	var text strings.Builder
	for t.pos < len(t.source) {
		if strings.HasPrefix(t.source[t.pos:], terminator) {
			t.advance(len(terminator))
			t.state = stateNormal
			return Token{Kind: String, Text: text.String(), Line: startLine, Column: startCol}
		}
		// An escape consumes exactly the next character, whatever it is.
		if t.source[t.pos] == '\\' && t.pos+1 < len(t.source) {
			text.WriteByte(t.source[t.pos])
			t.advance(1)
		}
		text.WriteByte(t.source[t.pos])
		t.advance(1)
	}

	// Unterminated: close at end of input.
	t.state = stateNormal
	return Token{Kind: String, Text: text.String(), Line: startLine, Column: startCol}
}

func (t *Tokenizer) scanTemplateString(startLine, startCol int) Token {
	var text strings.Builder
	for t.pos < len(t.source) {
		if t.source[t.pos] == '`' {
			t.advance(1)
			t.state = stateNormal
			return Token{Kind: String, Text: text.String(), Line: startLine, Column: startCol}
		}
		if t.source[t.pos] == '\\' && t.pos+1 < len(t.source) {
			text.WriteByte(t.source[t.pos])
			t.advance(1)
		}
		text.WriteByte(t.source[t.pos])
		t.advance(1)
	}
	t.state = stateNormal
	return Token{Kind: String, Text: text.String(), Line: startLine, Column: startCol}
}

func (t *Tokenizer) scanLineComment(startLine, startCol int) Token {
	var text strings.Builder
	for t.pos < len(t.source) && t.source[t.pos] != '\n' {
		text.WriteByte(t.source[t.pos])
		t.advance(1)
	}
	t.state = stateNormal
	return Token{Kind: Comment, Text: text.String(), Line: startLine, Column: startCol}
}

func (t *Tokenizer) scanBlockComment(startLine, startCol int) Token {
	closer := t.profile.BlockCommentClose
	var text strings.Builder
	for t.pos < len(t.source) {
		if closer != "" && strings.HasPrefix(t.source[t.pos:], closer) {
			t.advance(len(closer))
			t.state = stateNormal
			return Token{Kind: Comment, Text: text.String(), Line: startLine, Column: startCol}
		}
		text.WriteByte(t.source[t.pos])
		t.advance(1)
	}
	t.state = stateNormal
	return Token{Kind: Comment, Text: text.String(), Line: startLine, Column: startCol}
}

func (t *Tokenizer) scanIdentifier(startLine, startCol int) Token {
	start := t.pos
	for t.pos < len(t.source) && isIdentPart(t.source[t.pos]) {
		t.advance(1)
	}
	text := t.source[start:t.pos]
	kind := Identifier
	if t.profile.Keywords[text] {
		kind = Keyword
	}
	return Token{Kind: kind, Text: text, Line: startLine, Column: startCol}
}

// scanNumber permits '.' and '_' inside a literal so typed and underscored
// numbers across languages stay a single token.
func (t *Tokenizer) scanNumber(startLine, startCol int) Token {
	start := t.pos
	for t.pos < len(t.source) {
		ch := t.source[t.pos]
		if !isIdentPart(ch) && ch != '.' {
			break
		}
		t.advance(1)
	}
	return Token{Kind: Number, Text: t.source[start:t.pos], Line: startLine, Column: startCol}
}

var compoundOperators = []string{"==", "!=", "<=", ">=", "&&", "||", "->", "=>"}

func (t *Tokenizer) scanOperator(startLine, startCol int) Token {
	// Greedy: try a two-character compound before the single character.
	for _, op := range compoundOperators {
		if strings.HasPrefix(t.source[t.pos:], op) {
			t.advance(2)
			return Token{Kind: Operator, Text: op, Line: startLine, Column: startCol}
		}
	}
	ch := t.source[t.pos]
	t.advance(1)
	return Token{Kind: Operator, Text: string(ch), Line: startLine, Column: startCol}
}

// updateDepth maintains the three nesting counters. Closers on malformed
// input clamp at zero so a stray brace cannot corrupt later scanning.
func (t *Tokenizer) updateDepth(ch byte) {
	switch ch {
	case '{':
		t.braceDepth++
	case '}':
		t.braceDepth = max(0, t.braceDepth-1)
	case '(':
		t.parenDepth++
	case ')':
		t.parenDepth = max(0, t.parenDepth-1)
	case '[':
		t.bracketDepth++
	case ']':
		t.bracketDepth = max(0, t.bracketDepth-1)
	}
}

func (t *Tokenizer) advance(count int) {
	for i := 0; i < count && t.pos < len(t.source); i++ {
		if t.source[t.pos] == '\n' {
			t.line++
			t.column = 0
		} else {
			t.column++
		}
		t.pos++
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

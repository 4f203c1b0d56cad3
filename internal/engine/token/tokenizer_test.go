// # internal/engine/token/tokenizer_test.go
package token

import (
	"strings"
	"testing"
)

func kindsOf(tokens []Token) []Kind {
	kinds := make([]Kind, 0, len(tokens))
	for _, t := range tokens {
		kinds = append(kinds, t.Kind)
	}
	return kinds
}

func TestTokenizePythonBasics(t *testing.T) {
	src := "class Foo:\n    def bar(self):\n        return 1\n"
	tokens := Tokenize(src, ProfileForExtension(".py"))

	if tokens[0].Kind != Keyword || tokens[0].Text != "class" {
		t.Fatalf("expected leading 'class' keyword, got %v %q", tokens[0].Kind, tokens[0].Text)
	}
	if tokens[1].Kind != Identifier || tokens[1].Text != "Foo" {
		t.Fatalf("expected identifier 'Foo', got %v %q", tokens[1].Kind, tokens[1].Text)
	}
	last := tokens[len(tokens)-1]
	if last.Kind != EOF {
		t.Fatalf("expected trailing EOF token, got %v", last.Kind)
	}
}

func TestTokenizeTripleQuotedString(t *testing.T) {
	src := "x = \"\"\"class NotReal\nstill a string\"\"\"\ny = 2\n"
	tokens := Tokenize(src, ProfileForExtension(".py"))

	var str *Token
	for i := range tokens {
		if tokens[i].Kind == String {
			str = &tokens[i]
			break
		}
	}
	if str == nil {
		t.Fatal("expected a string token")
	}
	if !strings.Contains(str.Text, "class NotReal") {
		t.Errorf("triple-quoted content lost: %q", str.Text)
	}
	for _, tok := range tokens {
		if tok.Kind == Keyword && tok.Text == "class" {
			t.Error("keyword leaked out of a string literal")
		}
	}
}

func TestTokenizeTemplateString(t *testing.T) {
	src := "const s = `hello ${name} // not a comment`;"
	tokens := Tokenize(src, ProfileForExtension(".ts"))

	found := false
	for _, tok := range tokens {
		if tok.Kind == String && strings.Contains(tok.Text, "not a comment") {
			found = true
		}
		if tok.Kind == Comment {
			t.Error("comment token emitted inside template string")
		}
	}
	if !found {
		t.Error("template string content missing")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	src := `s = "never closed`
	tokens := Tokenize(src, ProfileForExtension(".py"))

	last := tokens[len(tokens)-1]
	if last.Kind != EOF {
		t.Fatalf("expected EOF, got %v", last.Kind)
	}
	str := tokens[len(tokens)-2]
	if str.Kind != String || str.Text != "never closed" {
		t.Errorf("unterminated string should still yield a token, got %v %q", str.Kind, str.Text)
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	src := "int x; /* runs off the end"
	tokens := Tokenize(src, ProfileForExtension(".c"))

	sawComment := false
	for _, tok := range tokens {
		if tok.Kind == Comment {
			sawComment = true
		}
	}
	if !sawComment {
		t.Error("unterminated block comment should still yield a comment token")
	}
}

func TestDepthNeverNegative(t *testing.T) {
	// Pathological input: more closers than openers at every point.
	src := "}}} ))) ]]] } ) ] {}"
	tk := NewTokenizer(src, ProfileForExtension(".go"))
	tk.Tokenize()

	if tk.BraceDepth() < 0 || tk.ParenDepth() < 0 || tk.BracketDepth() < 0 {
		t.Errorf("depth went negative: brace=%d paren=%d bracket=%d",
			tk.BraceDepth(), tk.ParenDepth(), tk.BracketDepth())
	}
}

func TestCompoundOperators(t *testing.T) {
	src := "a == b != c <= d >= e && f || g -> h => i"
	tokens := Tokenize(src, ProfileForExtension(".rs"))

	want := map[string]bool{"==": false, "!=": false, "<=": false, ">=": false, "&&": false, "||": false, "->": false, "=>": false}
	for _, tok := range tokens {
		if tok.Kind == Operator {
			if _, ok := want[tok.Text]; ok {
				want[tok.Text] = true
			}
		}
	}
	for op, seen := range want {
		if !seen {
			t.Errorf("compound operator %q not recognised", op)
		}
	}
}

func TestNumberLiteralsKeepSeparators(t *testing.T) {
	src := "x = 1_000_000\ny = 3.14f\n"
	tokens := Tokenize(src, ProfileForExtension(".java"))

	var numbers []string
	for _, tok := range tokens {
		if tok.Kind == Number {
			numbers = append(numbers, tok.Text)
		}
	}
	if len(numbers) != 2 {
		t.Fatalf("expected 2 number tokens, got %v", numbers)
	}
	if numbers[0] != "1_000_000" {
		t.Errorf("underscored literal split: %q", numbers[0])
	}
	if numbers[1] != "3.14f" {
		t.Errorf("typed float literal split: %q", numbers[1])
	}
}

func TestEscapeConsumesNextCharacter(t *testing.T) {
	src := `s = "a\"b"` + "\nrest = 1\n"
	tokens := Tokenize(src, ProfileForExtension(".py"))

	var str *Token
	for i := range tokens {
		if tokens[i].Kind == String {
			str = &tokens[i]
			break
		}
	}
	if str == nil || !strings.Contains(str.Text, `\"`) {
		t.Fatalf("escaped quote should stay inside the string, got %+v", str)
	}
	if kindsOf(tokens)[0] != Identifier {
		t.Errorf("expected identifier first, got %v", tokens[0].Kind)
	}
}

func TestFallbackProfileForUnknownExtension(t *testing.T) {
	p := ProfileForExtension(".xyz")
	if p.Language != "generic" {
		t.Fatalf("expected generic fallback, got %q", p.Language)
	}
	// C-style comments, no triple strings.
	if p.LineComment != "//" || p.BlockCommentOpen != "/*" || p.TripleStrings {
		t.Errorf("generic profile misconfigured: %+v", p)
	}
}

// # internal/engine/metrics/construction.go
package metrics

import (
	"mainseq/internal/engine/token"
)

// scanConstructedNames is the secondary lexical pass behind efferent
// coupling: it finds type construction idioms in the token stream and
// returns the distinct target names. A qualified construction like
// a.Foo() yields the root qualifier a, so it deduplicates against the
// matching import.
func scanConstructedNames(content, ext string) map[string]bool {
	lang := token.LanguageForExtension(ext)
	toks := filterCode(token.Tokenize(content, token.ProfileForLanguage(lang)))
	names := make(map[string]bool)

	switch lang {
	case "python", "swift":
		// capitalized call: Foo(...) or a.Foo(...)
		for i, t := range toks {
			if t.Kind == token.Identifier && isCapitalized(t.Text) && textAt(toks, i+1) == "(" {
				names[chainRoot(toks, i)] = true
			}
		}
	case "go":
		// composite literal: Foo{...} or pkg.Foo{...}
		for i, t := range toks {
			if t.Kind == token.Identifier && isCapitalized(t.Text) && textAt(toks, i+1) == "{" {
				names[chainRoot(toks, i)] = true
			}
		}
	case "rust":
		// associated constructor: Foo::new(...)
		for i, t := range toks {
			if t.Kind == token.Identifier && t.Text == "new" &&
				textAt(toks, i-1) == ":" && textAt(toks, i-2) == ":" {
				if prev := i - 3; prev >= 0 && toks[prev].Kind == token.Identifier {
					names[chainRoot(toks, prev)] = true
				}
			}
		}
	default:
		// new Foo(...) across the Java/JS/TS/C families
		for i, t := range toks {
			if t.Text == "new" && i+1 < len(toks) && toks[i+1].Kind == token.Identifier {
				names[toks[i+1].Text] = true
			}
		}
	}
	return names
}

func filterCode(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Comment || t.Kind == token.Newline {
			continue
		}
		out = append(out, t)
	}
	return out
}

// chainRoot walks a dotted or :: qualified chain backwards from the
// identifier at i and returns its first segment.
func chainRoot(toks []token.Token, i int) string {
	for {
		if i >= 2 && textAt(toks, i-1) == "." && toks[i-2].Kind == token.Identifier {
			i -= 2
			continue
		}
		if i >= 3 && textAt(toks, i-1) == ":" && textAt(toks, i-2) == ":" && toks[i-3].Kind == token.Identifier {
			i -= 3
			continue
		}
		return toks[i].Text
	}
}

func textAt(toks []token.Token, i int) string {
	if i < 0 || i >= len(toks) {
		return ""
	}
	return toks[i].Text
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

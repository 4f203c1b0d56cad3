// # internal/engine/token/token.go
package token

// Kind classifies a single token produced by the tokenizer.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	String
	Number
	Operator
	Delimiter
	Newline
	Comment
	EOF
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Operator:
		return "operator"
	case Delimiter:
		return "delimiter"
	case Newline:
		return "newline"
	case Comment:
		return "comment"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is one lexical unit. String and Comment tokens carry their raw
// content (without the enclosing quotes or comment markers) so that later
// stages can search quoted text out of band if they ever need to.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

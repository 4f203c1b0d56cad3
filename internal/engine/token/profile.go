// # internal/engine/token/profile.go
package token

import "strings"

// Profile carries the static lexical configuration of one language: comment
// markers, which string forms exist, and the reserved keyword set. Profiles
// are looked up by file extension; unrecognised extensions fall back to a
// generic C-style profile so every file can still be scanned.
type Profile struct {
	Language          string
	LineComment       string
	BlockCommentOpen  string
	BlockCommentClose string
	TripleStrings     bool // Python-style ''' / """
	TemplateStrings   bool // JS/TS backtick literals
	IndentBodies      bool // declaration bodies are indentation blocks
	Keywords          map[string]bool
}

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var profiles = map[string]*Profile{
	"python": {
		Language:      "python",
		LineComment:   "#",
		TripleStrings: true,
		IndentBodies:  true,
		Keywords: keywordSet(
			"class", "def", "import", "from", "as", "try", "except",
			"finally", "with", "async", "await", "yield", "lambda",
			"pass", "raise", "global", "nonlocal", "assert", "del",
			"True", "False", "None", "and", "or", "not", "in", "is",
			"if", "else", "elif", "for", "while", "return", "break", "continue"),
	},
	"java": {
		Language:          "java",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Keywords: keywordSet(
			"class", "interface", "enum", "abstract", "final", "static",
			"public", "private", "protected", "extends", "implements",
			"new", "this", "super", "void", "null", "true", "false",
			"import", "package", "throws", "throw", "try", "catch",
			"synchronized", "volatile", "transient", "native",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
	"javascript": {
		Language:          "javascript",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		TemplateStrings:   true,
		Keywords: keywordSet(
			"class", "function", "const", "let", "var", "import",
			"export", "from", "default", "extends", "new", "this",
			"super", "async", "await", "yield", "null", "undefined",
			"true", "false", "typeof", "instanceof", "delete",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
	"typescript": {
		Language:          "typescript",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		TemplateStrings:   true,
		Keywords: keywordSet(
			"class", "function", "const", "let", "var", "import",
			"export", "from", "default", "extends", "implements",
			"interface", "type", "enum", "abstract", "new", "this",
			"super", "async", "await", "public", "private", "protected",
			"readonly", "static", "null", "undefined",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
	"cpp": {
		Language:          "cpp",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Keywords: keywordSet(
			"class", "struct", "enum", "union", "namespace", "template",
			"virtual", "override", "final", "static", "const", "mutable",
			"public", "private", "protected", "friend", "inline", "extern",
			"new", "delete", "this", "nullptr", "true", "false", "sizeof",
			"typedef", "using", "typename", "explicit", "operator",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
	"go": {
		Language:          "go",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Keywords: keywordSet(
			"func", "type", "struct", "interface", "package", "import",
			"const", "var", "map", "chan", "go", "defer", "select", "case",
			"default", "range", "nil", "true", "false", "iota",
			"if", "else", "for", "return", "break", "continue"),
	},
	"rust": {
		Language:          "rust",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Keywords: keywordSet(
			"fn", "struct", "enum", "trait", "impl", "mod", "use", "pub",
			"crate", "super", "self", "Self", "const", "static", "mut",
			"ref", "let", "match", "loop", "async", "await", "move",
			"dyn", "where", "unsafe", "extern",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
	"swift": {
		Language:          "swift",
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Keywords: keywordSet(
			"class", "struct", "enum", "protocol", "extension", "func",
			"var", "let", "import", "public", "private", "internal",
			"fileprivate", "open", "static", "final", "override",
			"init", "deinit", "self", "Self", "nil", "true", "false",
			"if", "else", "for", "while", "return", "break", "continue"),
	},
}

// genericProfile is the fallback for unrecognised extensions: C-style
// comments, no triple or template strings, no reserved words.
var genericProfile = &Profile{
	Language:          "generic",
	LineComment:       "//",
	BlockCommentOpen:  "/*",
	BlockCommentClose: "*/",
	Keywords:          map[string]bool{},
}

var extensionLanguages = map[string]string{
	".py": "python", ".pyi": "python",
	".java": "java", ".scala": "java", ".kt": "java",
	".js": "javascript", ".jsx": "javascript", ".mjs": "javascript",
	".ts": "typescript", ".tsx": "typescript",
	".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp",
	".c": "cpp", ".h": "cpp", ".hpp": "cpp", ".hxx": "cpp",
	".go": "go",
	".rs": "rust",
	".swift": "swift",
}

// LanguageForExtension maps a file extension (with leading dot) to a language
// name, or "generic" when the extension is not recognised.
func LanguageForExtension(ext string) string {
	if lang, ok := extensionLanguages[strings.ToLower(ext)]; ok {
		return lang
	}
	return "generic"
}

// ProfileForLanguage returns the lexical profile for a language name.
func ProfileForLanguage(language string) *Profile {
	if p, ok := profiles[language]; ok {
		return p
	}
	return genericProfile
}

// ProfileForExtension is the extension-keyed lookup used by the parser.
func ProfileForExtension(ext string) *Profile {
	return ProfileForLanguage(LanguageForExtension(ext))
}

// SupportedExtensions lists every extension with a dedicated profile.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}
	return exts
}

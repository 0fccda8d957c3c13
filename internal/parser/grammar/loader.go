// Package grammar loads the tree-sitter grammars this module understands
// — JavaScript, TypeScript, and TSX — and maps file extensions to them.
package grammar

import (
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Dialect identifies which of the three supported grammars applies to a
// file.
type Dialect string

const (
	JavaScript Dialect = "javascript"
	TypeScript Dialect = "typescript"
	TSX        Dialect = "tsx"
)

// Loader holds one *sitter.Language per supported dialect, built once and
// shared for the lifetime of the process.
type Loader struct {
	languages map[Dialect]*sitter.Language
}

// NewLoader builds the JS/TS/TSX grammars. It never fails: the three
// bindings are statically linked, so construction cannot error at
// runtime.
func NewLoader() *Loader {
	return &Loader{
		languages: map[Dialect]*sitter.Language{
			JavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
			TypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			TSX:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
	}
}

// Language returns the grammar for dialect.
func (l *Loader) Language(dialect Dialect) *sitter.Language {
	return l.languages[dialect]
}

// DialectForPath classifies a file path by its extension. Files with an
// unrecognized extension return ("", false); callers treat such files as
// absent from the project.
func DialectForPath(path string) (Dialect, bool) {
	switch filepath.Ext(path) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript, true
	case ".ts", ".mts", ".cts":
		return TypeScript, true
	case ".tsx":
		return TSX, true
	default:
		return "", false
	}
}

// Package langts is the JS/TS front end: it owns the tree-sitter grammars
// and language detection extraction itself is agnostic to, playing the role
// of "the host compiler's AST data structures" the spec treats as an
// external collaborator (spec §1 Out of scope).
package langts

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies which tree-sitter grammar a source file should be
// parsed with.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

// Extensions supported per dialect, mirroring the teacher's
// providers/javascript and providers/typescript Config.Extensions.
var extensionsByDialect = map[Dialect][]string{
	DialectJavaScript: {".js", ".jsx", ".mjs", ".cjs"},
	DialectTypeScript: {".ts", ".d.ts"},
	DialectTSX:        {".tsx"},
}

// DetectDialect infers a dialect from a file's extension. It returns false
// for unsupported extensions.
func DetectDialect(path string) (Dialect, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if strings.HasSuffix(strings.ToLower(path), ".d.ts") {
		return DialectTypeScript, true
	}
	for dialect, exts := range extensionsByDialect {
		for _, candidate := range exts {
			if candidate == ext {
				return dialect, true
			}
		}
	}
	return "", false
}

// Grammar returns the tree-sitter language for a dialect.
func Grammar(dialect Dialect) *sitter.Language {
	switch dialect {
	case DialectTypeScript:
		return typescript.GetLanguage()
	case DialectTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// NewParser returns a tree-sitter parser configured for dialect.
func NewParser(dialect Dialect) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(Grammar(dialect))
	return parser
}

// AllExtensions lists every extension this front end recognizes, sorted by
// dialect, for CLI help text and directory-walk filtering.
func AllExtensions() []string {
	var all []string
	for _, dialect := range []Dialect{DialectJavaScript, DialectTypeScript, DialectTSX} {
		all = append(all, extensionsByDialect[dialect]...)
	}
	return all
}

package core

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// nodeText returns the raw source text spanned by node.
func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// ReadStaticString implements the StaticLiteralReader contract (spec §4.3):
// string literal -> its value; single-quasi template literal (no
// interpolation) -> the value of its one cooked quasi; anything else ->
// false. Used both for translator-call message arguments and for static
// option-object property values (id, message, description, namespace).
func ReadStaticString(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
		return unquoteJS(nodeText(node, source)), true
	case "template_string":
		return readSingleQuasiTemplate(node, source)
	default:
		return "", false
	}
}

// readSingleQuasiTemplate returns the cooked value of a template literal iff
// it has exactly one quasi and zero substitutions (`Hello!` qualifies,
// `Hello ${name}!` does not).
func readSingleQuasiTemplate(node *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "template_substitution" {
			return "", false
		}
	}

	raw := nodeText(node, source)
	// Strip the surrounding backticks.
	if len(raw) < 2 {
		return "", false
	}
	return unescapeCommon(raw[1 : len(raw)-1]), true
}

// unquoteJS strips the surrounding single or double quote characters (the
// only quotes a tree-sitter "string" node has) and resolves common escape
// sequences. Any other input is returned unchanged.
func unquoteJS(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw
	}
	return unescapeCommon(raw[1 : len(raw)-1])
}

var jsEscapes = map[byte]string{
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'`':  "`",
	'0':  "\x00",
}

// unescapeCommon resolves the small set of backslash escapes that show up in
// translator-call source literals. It is intentionally not a full JS string
// grammar (no \uXXXX, no \xXX) — those are rare in translated UI copy and,
// if present, are left verbatim rather than misinterpreted.
func unescapeCommon(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if repl, ok := jsEscapes[s[i+1]]; ok {
				b.WriteString(repl)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

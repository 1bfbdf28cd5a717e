package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/extracti18n/internal/core"
)

// ModuleScanner is the fourth pass (spec §4.7): it reads the module's
// top-of-file directives and collects every module specifier the file
// depends on, static or dynamic.
type ModuleScanner struct {
	source []byte

	hasUseClient bool
	hasUseServer bool
	dependencies []string

	// wrappedImports holds the start offsets of import(...) calls already
	// recorded through their dynamic(...)/lazy(...) wrapper.
	wrappedImports map[uint32]bool
}

// NewModuleScanner constructs a scanner over source.
func NewModuleScanner(source []byte) *ModuleScanner {
	return &ModuleScanner{source: source}
}

func (m *ModuleScanner) HasUseClient() bool     { return m.hasUseClient }
func (m *ModuleScanner) HasUseServer() bool     { return m.hasUseServer }
func (m *ModuleScanner) Dependencies() []string { return m.dependencies }

// ScanDirectives reads the leading run of string-literal expression
// statements at the top of the program for "use client" / "use server",
// stopping at the first statement that isn't one.
func (m *ModuleScanner) ScanDirectives(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			break
		}
		expr := stmt.NamedChild(0)
		if expr == nil || expr.Type() != "string" {
			break
		}
		value, _ := core.ReadStaticString(expr, m.source)
		switch value {
		case "use client":
			m.hasUseClient = true
		case "use server":
			m.hasUseServer = true
		}
	}
}

// VisitForDependency inspects a single node for the dependency shapes spec
// §4.7 asks for: a static import_statement's source, a re-export statement's
// source (`export { x } from './y'` / `export * from './y'`), a bare
// dynamic import("...") call, and dynamic(() => import("...")) /
// lazy(() => import("...")).
func (m *ModuleScanner) VisitForDependency(node *sitter.Node) {
	switch node.Type() {
	case "import_statement", "export_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			m.record(src)
		}
	case "call_expression":
		m.visitCall(node)
	}
}

func (m *ModuleScanner) visitCall(node *sitter.Node) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return
	}

	if isDynamicImportCallee(callee, m.source) {
		if !m.wrappedImports[node.StartByte()] {
			m.recordFirstArg(node)
		}
		return
	}

	if callee.Type() != "identifier" {
		return
	}
	name := nodeText(callee, m.source)
	if name != "dynamic" && name != "lazy" {
		return
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	arrow := args.NamedChild(0)
	if arrow.Type() != "arrow_function" {
		return
	}
	body := arrow.ChildByFieldName("body")
	if body == nil || body.Type() != "call_expression" {
		return
	}
	innerCallee := body.ChildByFieldName("function")
	if innerCallee == nil || !isDynamicImportCallee(innerCallee, m.source) {
		return
	}
	m.recordFirstArg(body)
	if m.wrappedImports == nil {
		m.wrappedImports = make(map[uint32]bool)
	}
	m.wrappedImports[body.StartByte()] = true
}

// isDynamicImportCallee reports whether callee is the special "import"
// keyword-as-callee node a dynamic import(...) expression parses to.
// tree-sitter-javascript's grammar has given this node a distinct type in
// some revisions and none in others, so the callee's literal text is
// checked too rather than trusting node.Type() alone.
func isDynamicImportCallee(callee *sitter.Node, source []byte) bool {
	if callee.Type() == "import" {
		return true
	}
	return nodeText(callee, source) == "import"
}

func (m *ModuleScanner) recordFirstArg(callExpr *sitter.Node) {
	args := callExpr.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	m.record(args.NamedChild(0))
}

// record appends value to Dependencies for every occurrence — duplicates are
// preserved in traversal order (spec §4.7: "the consumer decides whether to
// de-duplicate").
func (m *ModuleScanner) record(stringNode *sitter.Node) {
	value, ok := core.ReadStaticString(stringNode, m.source)
	if !ok {
		return
	}
	m.dependencies = append(m.dependencies, value)
}

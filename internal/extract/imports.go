// Package extract implements the fixed-order rewrite passes over a parsed
// JS/TS module: import rewriting, translator-binding tracking, call-site
// rewriting, module scanning, and output assembly (spec §4). Transform, in
// engine.go, is the single entry point that runs them in order.
package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/extracti18n/internal/core"
)

// ImportRewriter is the first pass (spec §4.4): it finds sentinel imports at
// module scope, registers their local bindings in HookBindings, and queues
// edits that swap the sentinel name for the production hook name and the
// local binding for the kind's reserved local.
type ImportRewriter struct {
	source         []byte
	hookBindings   map[core.BindingKey]core.HookKind
	directBindings map[core.BindingKey]core.HookKind
	edits          []Edit
}

// NewImportRewriter constructs a rewriter over source.
func NewImportRewriter(source []byte) *ImportRewriter {
	return &ImportRewriter{
		source:         source,
		hookBindings:   make(map[core.BindingKey]core.HookKind),
		directBindings: make(map[core.BindingKey]core.HookKind),
	}
}

// HookBindings exposes the (local name -> kind) table built by Run, keyed at
// module scope (empty Context). Transform seeds the scope stack and
// TranslatorTracker's sentinel-local set from it.
func (r *ImportRewriter) HookBindings() map[core.BindingKey]core.HookKind {
	return r.hookBindings
}

// DirectBindings exposes locals bound to an import of the PRODUCTION hook
// name itself (e.g. a file that already imports useTranslations directly,
// with no sentinel involved). These need no rewrite, but a translator
// obtained from one is still worth tracking so its call sites resolve as
// direct catalog references rather than going unrecognized.
func (r *ImportRewriter) DirectBindings() map[core.BindingKey]core.HookKind {
	return r.directBindings
}

// Edits returns the queued import-specifier rewrites.
func (r *ImportRewriter) Edits() []Edit {
	return r.edits
}

// Run walks the top-level import_statement nodes directly under root and
// processes every named import specifier matching a known sentinel export
// from the matching source module (spec §6 "Recognized module specifiers").
func (r *ImportRewriter) Run(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "import_statement" {
			continue
		}
		r.visitImportStatement(stmt)
	}
}

func (r *ImportRewriter) visitImportStatement(stmt *sitter.Node) {
	sourceNode := stmt.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	modulePath, ok := core.ReadStaticString(sourceNode, r.source)
	if !ok {
		return
	}

	clause := findNamedImportClause(stmt)
	if clause == nil {
		return
	}

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Type() != "import_specifier" {
			continue
		}
		r.visitSpecifier(spec, modulePath)
	}
}

// findNamedImportClause locates the `{ ... }` named-imports clause within an
// import_statement, looking past a possible default-import sibling.
func findNamedImportClause(stmt *sitter.Node) *sitter.Node {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child.Type() == "import_clause" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				grand := child.NamedChild(j)
				if grand.Type() == "named_imports" {
					return grand
				}
			}
		}
		if child.Type() == "named_imports" {
			return child
		}
	}
	return nil
}

func (r *ImportRewriter) visitSpecifier(spec *sitter.Node, modulePath string) {
	nameNode := spec.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	exportedName := nodeText(nameNode, r.source)

	localNode := spec.ChildByFieldName("alias")
	localName := exportedName
	if localNode != nil {
		localName = nodeText(localNode, r.source)
	}

	if kind, ok := matchSentinel(exportedName, modulePath); ok {
		r.hookBindings[core.BindingKey{Name: localName}] = kind
		r.edits = append(r.edits, Edit{
			Start:       spec.StartByte(),
			End:         spec.EndByte(),
			Replacement: kind.Target + " as " + kind.ReservedLocal,
		})
		return
	}

	if kind, ok := matchProduction(exportedName, modulePath); ok {
		r.directBindings[core.BindingKey{Name: localName}] = kind
	}
}

func matchSentinel(exportedName, modulePath string) (core.HookKind, bool) {
	for _, kind := range []core.HookKind{core.HookUseTranslation, core.HookGetTranslation} {
		if kind.Extracted == exportedName && kind.SourceModule == modulePath {
			return kind, true
		}
	}
	return core.HookKind{}, false
}

func matchProduction(exportedName, modulePath string) (core.HookKind, bool) {
	for _, kind := range []core.HookKind{core.HookUseTranslation, core.HookGetTranslation} {
		if kind.Target == exportedName && kind.SourceModule == modulePath {
			return kind, true
		}
	}
	return core.HookKind{}, false
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

package extract

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/extracti18n/internal/core"
	"github.com/oxhq/extracti18n/internal/langts"
)

// Transform is the plugin's single entry point (spec §6): given a source
// file's bytes and its config, it runs the fixed-order pass pipeline —
// ImportRewriter, TranslatorTracker, CallSiteRewriter, ModuleScanner,
// AssembleMessages — and returns the rewritten source plus its structured
// output. Config validation failures are reported as a core.CLIError, per
// spec §7.
func Transform(source []byte, dialect langts.Dialect, cfg core.Config) (core.Result, error) {
	if cfg.FilePath == "" {
		return core.Result{}, core.WrapError(core.ErrCodeInvalidConfig, "config is invalid", core.ErrMissingFilePath)
	}

	parser := langts.NewParser(dialect)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return core.Result{}, core.WrapError(core.ErrCodeParseFailure, "failed to parse source", err)
	}
	root := tree.RootNode()

	importRewriter := NewImportRewriter(source)
	importRewriter.Run(root)

	sentinelLocals := make(map[string]bool, len(importRewriter.HookBindings()))
	for key := range importRewriter.HookBindings() {
		sentinelLocals[key.Name] = true
	}

	scope := core.NewScopeStack()
	for key, kind := range importRewriter.HookBindings() {
		scope.Define(key.Name, bindingKindFor(kind))
	}
	for key, kind := range importRewriter.DirectBindings() {
		scope.Define(key.Name, bindingKindFor(kind))
	}

	tracker := NewTranslatorTracker(source, sentinelLocals)
	callSites := NewCallSiteRewriter(source, cfg.FilePath, cfg.IsDevelopment, tracker)
	scanner := NewModuleScanner(source)
	scanner.ScanDirectives(root)

	walk(root, scope, tracker, callSites, scanner)

	var edits []Edit
	edits = append(edits, importRewriter.Edits()...)
	edits = append(edits, tracker.Edits()...)
	edits = append(edits, callSites.Edits()...)

	rewritten := ApplyEdits(source, edits)

	output := core.ModuleOutput{
		Messages:     AssembleMessages(callSites.Messages()),
		Dependencies: scanner.Dependencies(),
		HasUseClient: scanner.HasUseClient(),
		HasUseServer: scanner.HasUseServer(),
		Diagnostics:  callSites.Diagnostics(),
	}

	return core.Result{Code: rewritten, Output: output}, nil
}

// bindingKindFor maps a HookKind back to its ScopeStack marker. There are
// exactly two recognized kinds, so a direct field comparison is simpler and
// cheaper than threading an extra lookup table through the pipeline.
func bindingKindFor(kind core.HookKind) core.BindingKind {
	if kind.SourceModule == core.HookGetTranslation.SourceModule && kind.Target == core.HookGetTranslation.Target {
		return core.BindingHookGetTranslation
	}
	return core.BindingHookUseTranslation
}

// functionNodeTypes are the node types that introduce their own parameter
// scope (spec Design Note (a) / SPEC_FULL.md §4: "pushing/popping at block
// statements, function bodies, and arrow function bodies").
var functionNodeTypes = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"method_definition":              true,
	"arrow_function":                 true,
}

// walk is the single depth-first traversal the translator, call-site and
// dependency passes share,
// so that scope push/pop order and source order stay in lockstep: a
// translator binding is always visible to the call sites textually below it.
func walk(node *sitter.Node, scope *core.ScopeStack, tracker *TranslatorTracker, callSites *CallSiteRewriter, scanner *ModuleScanner) {
	isFunction := functionNodeTypes[node.Type()]
	pushed := node.Type() == "statement_block" || isFunction
	if pushed {
		scope.Push()
		tracker.Push()
	}
	if isFunction {
		// A parameter is never a translator, even if it shadows an outer
		// one (spec testable property P4): register it explicitly rather
		// than leaving the name unbound, which would let Lookup fall
		// through to the outer scope's translator binding.
		for _, name := range functionParamNames(node, tracker.source) {
			scope.Define(name, core.BindingParameter)
			tracker.Shadow(name)
		}
	}

	switch node.Type() {
	case "variable_declarator":
		tracker.VisitDeclarator(node, scope)
	case "call_expression":
		callSites.VisitCall(node)
		scanner.VisitForDependency(node)
	case "import_statement", "export_statement":
		scanner.VisitForDependency(node)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), scope, tracker, callSites, scanner)
	}

	if pushed {
		_ = scope.Pop()
		tracker.Pop()
	}
}

// functionParamNames returns the flat set of identifier names bound by a
// function-like node's parameter list, including an arrow function's lone
// unparenthesized parameter (`x => ...`).
func functionParamNames(node *sitter.Node, source []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = node.ChildByFieldName("parameter")
	}
	if params == nil {
		return nil
	}
	if params.Type() == "identifier" {
		return []string{nodeText(params, source)}
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		names = append(names, bindingIdentifiers(params.NamedChild(i), source)...)
	}
	return names
}

// bindingIdentifiers recursively collects every identifier a parameter
// pattern binds — a plain identifier, a default value (`x = 1`), a rest
// parameter (`...rest`), or a destructured object/array pattern.
func bindingIdentifiers(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{nodeText(node, source)}
	case "assignment_pattern":
		return bindingIdentifiers(node.ChildByFieldName("left"), source)
	case "rest_pattern":
		if node.NamedChildCount() > 0 {
			return bindingIdentifiers(node.NamedChild(0), source)
		}
	case "pair_pattern":
		return bindingIdentifiers(node.ChildByFieldName("value"), source)
	case "object_pattern", "array_pattern":
		var names []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			names = append(names, bindingIdentifiers(node.NamedChild(i), source)...)
		}
		return names
	}
	return nil
}

package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/extracti18n/internal/core"
)

// TranslatorTracker is the second pass (spec §4.5): for every variable
// declarator whose initializer is a (possibly awaited) call to a bound
// sentinel hook, it rewrites the call's callee to the hook's reserved local
// and records the declared variable as a translator binding, carrying an
// optional static namespace argument.
//
// Its own scope chain mirrors the shared core.ScopeStack one-for-one — Push
// and Pop must be called alongside the shared stack's — because a
// TranslatorInfo payload (the namespace) has no home in core.ScopeStack's
// plain BindingKind values.
type TranslatorTracker struct {
	source         []byte
	sentinelLocals map[string]bool
	scopes         []map[string]core.TranslatorInfo
	blocked        []map[string]bool
	edits          []Edit
}

// NewTranslatorTracker constructs a tracker over source. sentinelLocals is
// the set of import-scope local names that were rewritten from a sentinel
// (ImportRewriter.HookBindings' keys) — only calls through one of these get
// their callee rewritten to the reserved local; calls through a directly
// imported production hook are left untouched.
func NewTranslatorTracker(source []byte, sentinelLocals map[string]bool) *TranslatorTracker {
	return &TranslatorTracker{
		source:         source,
		sentinelLocals: sentinelLocals,
		scopes:         []map[string]core.TranslatorInfo{make(map[string]core.TranslatorInfo)},
		blocked:        []map[string]bool{make(map[string]bool)},
	}
}

// Push opens a new lexical scope, mirroring core.ScopeStack.Push.
func (t *TranslatorTracker) Push() {
	t.scopes = append(t.scopes, make(map[string]core.TranslatorInfo))
	t.blocked = append(t.blocked, make(map[string]bool))
}

// Pop closes the innermost lexical scope, mirroring core.ScopeStack.Pop.
func (t *TranslatorTracker) Pop() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
	t.blocked = t.blocked[:len(t.blocked)-1]
}

// Shadow marks name as bound to something other than a translator in the
// innermost scope — a function/arrow parameter, typically — so Lookup stops
// at this scope instead of falling through to an outer translator binding
// of the same name (spec testable property P4).
func (t *TranslatorTracker) Shadow(name string) {
	t.blocked[len(t.blocked)-1][name] = true
}

// Lookup walks the tracker's scope chain innermost-first for a translator
// binding's recorded namespace info. A name marked Shadow'd at a given
// scope level stops the search there, even if an outer scope has a
// translator binding of the same name.
func (t *TranslatorTracker) Lookup(name string) (core.TranslatorInfo, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if t.blocked[i][name] {
			return core.TranslatorInfo{}, false
		}
		if info, ok := t.scopes[i][name]; ok {
			return info, true
		}
	}
	return core.TranslatorInfo{}, false
}

// Edits returns the queued callee rewrites.
func (t *TranslatorTracker) Edits() []Edit {
	return t.edits
}

// VisitDeclarator inspects a single variable_declarator against scope, which
// must already carry the module-level hook bindings registered by
// ImportRewriter (spec §4.4's HookBindings, reflected into scope by the
// caller before traversal begins).
func (t *TranslatorTracker) VisitDeclarator(node *sitter.Node, scope *core.ScopeStack) {
	nameNode := declaratorName(node)
	if nameNode == nil || nameNode.Type() != "identifier" {
		return
	}
	localName := nodeText(nameNode, t.source)

	call := unwrapAwait(node.ChildByFieldName("value"))
	if call == nil || call.Type() != "call_expression" {
		return
	}
	calleeNode := call.ChildByFieldName("function")
	if calleeNode == nil || calleeNode.Type() != "identifier" {
		return
	}
	calleeName := nodeText(calleeNode, t.source)

	bindingKind, ok := scope.Lookup(calleeName)
	if !ok {
		return
	}
	if _, ok := hookKindForBinding(bindingKind); !ok {
		return
	}
	fromSentinel := t.sentinelLocals[calleeName]
	if fromSentinel {
		hook, _ := hookKindForBinding(bindingKind)
		t.edits = append(t.edits, Edit{
			Start:       calleeNode.StartByte(),
			End:         calleeNode.EndByte(),
			Replacement: hook.ReservedLocal,
		})
	}

	info := core.TranslatorInfo{FromSentinel: fromSentinel}
	if argsNode := call.ChildByFieldName("arguments"); argsNode != nil && argsNode.NamedChildCount() == 1 {
		nsNode := argsNode.NamedChild(0)
		if nsNode.Type() == "object" {
			options := nsNode
			nsNode = nil
			for i := 0; i < int(options.NamedChildCount()); i++ {
				pair := options.NamedChild(i)
				if key := pair.ChildByFieldName("key"); pair.Type() == "pair" && key != nil && nodeText(key, t.source) == "namespace" {
					nsNode = pair.ChildByFieldName("value")
				}
			}
		}
		if value, ok := core.ReadStaticString(nsNode, t.source); ok {
			info.Namespace = value
			info.HasNS = true
		}
	}

	scope.Define(localName, core.BindingTranslator)
	t.scopes[len(t.scopes)-1][localName] = info
}

// hookKindForBinding maps a ScopeStack hook BindingKind back to its full
// core.HookKind. There are exactly two, so this is a closed switch rather
// than a lookup table keyed by import-time state.
func hookKindForBinding(kind core.BindingKind) (core.HookKind, bool) {
	switch kind {
	case core.BindingHookUseTranslation:
		return core.HookUseTranslation, true
	case core.BindingHookGetTranslation:
		return core.HookGetTranslation, true
	default:
		return core.HookKind{}, false
	}
}

// declaratorName returns the identifier bound by a variable_declarator,
// trying the grammar's "name" field first, falling back to "id" (seen in
// other tree-sitter-javascript grammar revisions), and finally scanning for
// the first identifier/pattern child.
func declaratorName(node *sitter.Node) *sitter.Node {
	if n := node.ChildByFieldName("name"); n != nil {
		return n
	}
	if n := node.ChildByFieldName("id"); n != nil {
		return n
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier", "array_pattern", "object_pattern":
			return child
		}
	}
	return nil
}

// unwrapAwait returns node's inner expression if node is an await_expression,
// otherwise node itself.
func unwrapAwait(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() != "await_expression" {
		return node
	}
	if node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}

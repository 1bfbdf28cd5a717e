package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/extracti18n/internal/core"
)

// callSiteVariants are the translator-member calls recognized in addition to
// a bare t(...) invocation (spec invariant I1: a call is a translator call
// iff its callee is the binding itself or one of these members). "has" is
// an existence check — same message shape, no dev fallback appended.
var callSiteVariants = map[string]bool{
	"rich":   true,
	"markup": true,
	"has":    true,
}

// CallSiteRewriter is the third pass (spec §4.6): for every call through a
// tracked translator binding, it reads the message argument, derives or
// takes the catalog id, rewrites the call's arguments, and records a
// core.Message plus any diagnostics.
type CallSiteRewriter struct {
	source        []byte
	filePath      string
	isDevelopment bool
	tracker       *TranslatorTracker

	edits       []Edit
	messages    []core.Message
	diagnostics []core.Diagnostic
}

// NewCallSiteRewriter constructs a rewriter. tracker must be the same
// TranslatorTracker instance being fed VisitDeclarator calls during the same
// traversal, so translator bindings are visible by the time their call sites
// are reached.
func NewCallSiteRewriter(source []byte, filePath string, isDevelopment bool, tracker *TranslatorTracker) *CallSiteRewriter {
	return &CallSiteRewriter{
		source:        source,
		filePath:      filePath,
		isDevelopment: isDevelopment,
		tracker:       tracker,
	}
}

func (c *CallSiteRewriter) Edits() []Edit                  { return c.edits }
func (c *CallSiteRewriter) Messages() []core.Message       { return c.messages }
func (c *CallSiteRewriter) Diagnostics() []core.Diagnostic { return c.diagnostics }

// VisitCall inspects a single call_expression. It is a no-op for any call
// that isn't a recognized translator invocation.
func (c *CallSiteRewriter) VisitCall(node *sitter.Node) {
	translatorName, variant, ok := c.translatorCall(node)
	if !ok {
		return
	}
	info, ok := c.tracker.Lookup(translatorName)
	if !ok {
		return
	}
	isHasCall := variant == "has"

	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil || argsNode.NamedChildCount() == 0 {
		return
	}
	firstArg := argsNode.NamedChild(0)

	before := len(c.messages)
	switch {
	case !info.FromSentinel:
		c.visitDirectReference(firstArg, node)
	case firstArg.Type() == "object":
		c.visitObjectShape(node, argsNode, firstArg, isHasCall)
	default:
		c.visitLiteralShape(node, argsNode, firstArg, isHasCall)
	}

	// A namespaced translator records namespace + "." + call key; the
	// in-source argument keeps the bare call key.
	if info.HasNS {
		for i := before; i < len(c.messages); i++ {
			c.messages[i].ID = info.Namespace + "." + c.messages[i].ID
		}
	}
}

// translatorCall decodes a call_expression's callee into (translator local
// name, member variant, recognized). variant is "" for a bare t(...) call.
func (c *CallSiteRewriter) translatorCall(node *sitter.Node) (string, string, bool) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return "", "", false
	}
	switch callee.Type() {
	case "identifier":
		return nodeText(callee, c.source), "", true
	case "member_expression":
		object := callee.ChildByFieldName("object")
		property := callee.ChildByFieldName("property")
		if object == nil || property == nil || object.Type() != "identifier" {
			return "", "", false
		}
		variant := nodeText(property, c.source)
		if !callSiteVariants[variant] {
			return "", "", false
		}
		return nodeText(object, c.source), variant, true
	default:
		return "", "", false
	}
}

// visitDirectReference handles a call through a translator obtained from an
// already-correct production hook import: the literal argument is a
// catalog reference, not text to hash, and nothing in the source is
// rewritten.
func (c *CallSiteRewriter) visitDirectReference(firstArg *sitter.Node, node *sitter.Node) {
	value, ok := core.ReadStaticString(firstArg, c.source)
	if !ok {
		return
	}
	line, col := position(node)
	c.messages = append(c.messages, core.Message{
		Type:       core.MessageTranslations,
		ID:         value,
		References: []core.Reference{{Path: c.filePath, Line: line, Column: col}},
	})
}

// visitObjectShape handles argument shape A: an object literal with id
// (optional), message (required, static), description (optional, static),
// values and formats (optional, any expression).
func (c *CallSiteRewriter) visitObjectShape(node, argsNode, obj *sitter.Node, isHasCall bool) {
	props := c.readProperties(obj)

	messageNode := props["message"]
	if messageNode == nil {
		return
	}
	message, ok := core.ReadStaticString(messageNode, c.source)
	if !ok {
		c.emitDynamicDiagnostic(messageNode)
		return
	}

	id := core.DeriveKey(message)
	if idNode := props["id"]; idNode != nil {
		if explicit, ok := core.ReadStaticString(idNode, c.source); ok {
			id = explicit
		}
	}

	var description *string
	if descNode := props["description"]; descNode != nil {
		if d, ok := core.ReadStaticString(descNode, c.source); ok {
			description = &d
		}
	}

	args := []string{jsStringLiteral(id)}
	if valuesNode := props["values"]; valuesNode != nil {
		args = append(args, nodeText(valuesNode, c.source))
	}
	if formatsNode := props["formats"]; formatsNode != nil {
		for len(args) < 2 {
			args = append(args, "undefined")
		}
		args = append(args, nodeText(formatsNode, c.source))
	}
	if c.isDevelopment && !isHasCall {
		for len(args) < 3 {
			args = append(args, "undefined")
		}
		args = append(args, jsStringLiteral(message))
	}

	c.edits = append(c.edits, Edit{
		Start:       argsNode.StartByte(),
		End:         argsNode.EndByte(),
		Replacement: "(" + joinArgs(args) + ")",
	})

	line, col := position(node)
	c.messages = append(c.messages, core.Message{
		Type:        core.MessageExtracted,
		ID:          id,
		Message:     message,
		Description: description,
		References:  []core.Reference{{Path: c.filePath, Line: line, Column: col}},
	})
}

// visitLiteralShape handles argument shape B: the first argument is itself
// the message, as a string or single-quasi template literal.
func (c *CallSiteRewriter) visitLiteralShape(node, argsNode, firstArg *sitter.Node, isHasCall bool) {
	message, ok := core.ReadStaticString(firstArg, c.source)
	if !ok {
		c.emitDynamicDiagnostic(firstArg)
		return
	}
	id := core.DeriveKey(message)

	c.edits = append(c.edits, Edit{
		Start:       firstArg.StartByte(),
		End:         firstArg.EndByte(),
		Replacement: jsStringLiteral(id),
	})

	if c.isDevelopment && !isHasCall {
		existing := int(argsNode.NamedChildCount())
		var trailer string
		for existing < 3 {
			trailer += ", undefined"
			existing++
		}
		trailer += ", " + jsStringLiteral(message)
		c.edits = append(c.edits, Edit{
			Start:       argsNode.EndByte() - 1,
			End:         argsNode.EndByte() - 1,
			Replacement: trailer,
		})
	}

	line, col := position(node)
	c.messages = append(c.messages, core.Message{
		Type:       core.MessageExtracted,
		ID:         id,
		Message:    message,
		References: []core.Reference{{Path: c.filePath, Line: line, Column: col}},
	})
}

func (c *CallSiteRewriter) emitDynamicDiagnostic(node *sitter.Node) {
	line, col := position(node)
	c.diagnostics = append(c.diagnostics, core.Diagnostic{
		Code:    core.DiagDynamicMessage,
		Message: "translator call's message argument is not a static string or template literal",
		Line:    line,
		Column:  col,
	})
}

// readProperties maps an object literal's string/identifier property keys to
// their value nodes. Shorthand properties (`{ message }`) and computed keys
// are skipped — the call site contract requires explicit key: value pairs.
func (c *CallSiteRewriter) readProperties(obj *sitter.Node) map[string]*sitter.Node {
	out := make(map[string]*sitter.Node)
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		keyNode := pair.ChildByFieldName("key")
		valueNode := pair.ChildByFieldName("value")
		if keyNode == nil || valueNode == nil {
			continue
		}
		var key string
		switch keyNode.Type() {
		case "property_identifier", "identifier":
			key = nodeText(keyNode, c.source)
		case "string":
			key, _ = core.ReadStaticString(keyNode, c.source)
		default:
			continue
		}
		out[key] = valueNode
	}
	return out
}

func position(node *sitter.Node) (line, column int) {
	point := node.StartPoint()
	return int(point.Row) + 1, int(point.Column) + 1
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += ", " + a
	}
	return out
}

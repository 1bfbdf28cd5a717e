package core

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

func firstNodeOfType(root *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if found != nil {
			return
		}
		if node.Type() == nodeType {
			found = node
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(root)
	return found
}

func parseExpression(t *testing.T, source string) *sitter.Node {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	call := firstNodeOfType(tree.RootNode(), "call_expression")
	if call == nil {
		t.Fatal("expected to find a call_expression")
	}
	args := call.ChildByFieldName("arguments")
	return args.NamedChild(0)
}

func TestReadStaticString_StringLiteral(t *testing.T) {
	source := `t("Hello, world")`
	node := parseExpression(t, source)
	value, ok := ReadStaticString(node, []byte(source))
	if !ok || value != "Hello, world" {
		t.Fatalf("expected (%q, true), got (%q, %v)", "Hello, world", value, ok)
	}
}

func TestReadStaticString_EscapedQuotes(t *testing.T) {
	source := `t("say \"hi\"")`
	node := parseExpression(t, source)
	value, ok := ReadStaticString(node, []byte(source))
	if !ok || value != `say "hi"` {
		t.Fatalf("expected (%q, true), got (%q, %v)", `say "hi"`, value, ok)
	}
}

func TestReadStaticString_SingleQuasiTemplate(t *testing.T) {
	source := "t(`Hello there`)"
	node := parseExpression(t, source)
	value, ok := ReadStaticString(node, []byte(source))
	if !ok || value != "Hello there" {
		t.Fatalf("expected (%q, true), got (%q, %v)", "Hello there", value, ok)
	}
}

func TestReadStaticString_InterpolatedTemplateIsRejected(t *testing.T) {
	source := "t(`Hello ${name}`)"
	node := parseExpression(t, source)
	_, ok := ReadStaticString(node, []byte(source))
	if ok {
		t.Fatal("expected an interpolated template literal to be rejected")
	}
}

func TestReadStaticString_NonLiteralIsRejected(t *testing.T) {
	source := "t(x)"
	node := parseExpression(t, source)
	_, ok := ReadStaticString(node, []byte(source))
	if ok {
		t.Fatal("expected an identifier argument to be rejected")
	}
}

package core

import "testing"

func TestScopeStack_DefineAndLookupInnermost(t *testing.T) {
	s := NewScopeStack()
	s.Define("t", BindingTranslator)

	kind, ok := s.Lookup("t")
	if !ok || kind != BindingTranslator {
		t.Fatalf("expected BindingTranslator, got %v (ok=%v)", kind, ok)
	}
}

func TestScopeStack_InnerScopeShadowsOuter(t *testing.T) {
	s := NewScopeStack()
	s.Define("t", BindingHookUseTranslation)

	s.Push()
	s.Define("t", BindingTranslator)

	kind, ok := s.Lookup("t")
	if !ok || kind != BindingTranslator {
		t.Fatalf("expected the inner binding to shadow the outer one, got %v", kind)
	}

	if err := s.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}

	kind, ok = s.Lookup("t")
	if !ok || kind != BindingHookUseTranslation {
		t.Fatalf("expected the outer binding to reappear after Pop, got %v", kind)
	}
}

func TestScopeStack_LookupMissingIsNotFound(t *testing.T) {
	s := NewScopeStack()
	if _, ok := s.Lookup("missing"); ok {
		t.Fatal("expected lookup of an undefined name to fail")
	}
}

func TestScopeStack_DepthTracksPushPop(t *testing.T) {
	s := NewScopeStack()
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after construction, got %d", s.Depth())
	}
	s.Push()
	s.Push()
	if s.Depth() != 3 {
		t.Fatalf("expected depth 3 after two pushes, got %d", s.Depth())
	}
	if err := s.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if s.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", s.Depth())
	}
}

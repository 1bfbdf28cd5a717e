package extract

import (
	"strings"
	"testing"

	"github.com/oxhq/extracti18n/internal/core"
	"github.com/oxhq/extracti18n/internal/langts"
)

func transformJS(t *testing.T, source string, cfg core.Config) core.Result {
	t.Helper()
	result, err := Transform([]byte(source), langts.DialectJavaScript, cfg)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	return result
}

func TestTransform_MissingFilePath(t *testing.T) {
	_, err := Transform([]byte("const x = 1;"), langts.DialectJavaScript, core.Config{})
	if err == nil {
		t.Fatal("expected an error for a missing FilePath")
	}
	cliErr, ok := err.(core.CLIError)
	if !ok {
		t.Fatalf("expected a core.CLIError, got %T", err)
	}
	if cliErr.Code != core.ErrCodeInvalidConfig {
		t.Errorf("expected code %s, got %s", core.ErrCodeInvalidConfig, cliErr.Code)
	}
}

func TestTransform_BasicSentinelHook(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	t("Hey from server!");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	code := string(result.Code)

	if !strings.Contains(code, "useTranslations as $useTranslations1") {
		t.Errorf("expected rewritten import, got:\n%s", code)
	}
	if !strings.Contains(code, "$useTranslations1()") {
		t.Errorf("expected rewritten hook call, got:\n%s", code)
	}
	if strings.Contains(code, "Hey from server!") {
		t.Errorf("message text should not survive in non-dev code:\n%s", code)
	}

	if len(result.Output.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Output.Messages))
	}
	msg := result.Output.Messages[0]
	wantID := core.DeriveKey("Hey from server!")
	if msg.ID != wantID {
		t.Errorf("expected id %q, got %q", wantID, msg.ID)
	}
	if msg.Type != core.MessageExtracted {
		t.Errorf("expected MessageExtracted, got %v", msg.Type)
	}
	if msg.Message != "Hey from server!" {
		t.Errorf("expected message text preserved, got %q", msg.Message)
	}
	if len(msg.References) != 1 || msg.References[0].Path != "app/page.tsx" {
		t.Errorf("expected a reference to app/page.tsx, got %+v", msg.References)
	}
}

func TestTransform_AliasedSentinelImport(t *testing.T) {
	source := `import {useExtracted as useInlined} from 'next-intl';
function C(){
	const t = useInlined();
	t("Hey!");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	code := string(result.Code)

	if !strings.Contains(code, "useTranslations as $useTranslations1") {
		t.Errorf("expected alias to be rewritten to the reserved local, got:\n%s", code)
	}
	if strings.Contains(code, "useInlined") {
		t.Errorf("original alias should not survive the rewrite:\n%s", code)
	}
}

func TestTransform_DevModeFallback(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	t({id: "greet", message: "Hello", description: "A greeting"});
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx", IsDevelopment: true})
	code := string(result.Code)

	if !strings.Contains(code, `t("greet", undefined, undefined, "Hello")`) {
		t.Errorf("expected dev-mode padded fallback call, got:\n%s", code)
	}

	if len(result.Output.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Output.Messages))
	}
	msg := result.Output.Messages[0]
	if msg.ID != "greet" {
		t.Errorf("expected explicit id 'greet' to be preserved, got %q", msg.ID)
	}
	if msg.Description == nil || *msg.Description != "A greeting" {
		t.Errorf("expected description 'A greeting', got %v", msg.Description)
	}
}

func TestTransform_GetExtractedServerHook(t *testing.T) {
	source := `import {getExtracted} from 'next-intl/server';
async function run(){
	const t = await getExtracted();
	t("Server side");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/server.ts"})
	code := string(result.Code)

	if !strings.Contains(code, "getTranslations as $getTranslations1") {
		t.Errorf("expected server hook import rewrite, got:\n%s", code)
	}
	if !strings.Contains(code, "await $getTranslations1()") {
		t.Errorf("expected await preserved around rewritten callee, got:\n%s", code)
	}
}

func TestTransform_DirectProductionHookIsUntouched(t *testing.T) {
	source := `import {useTranslations} from 'next-intl';
function C(){
	const t = useTranslations();
	t("existing.key");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	code := string(result.Code)
	if code != source {
		t.Errorf("expected source to be untouched for a direct production import, got:\n%s", code)
	}

	if len(result.Output.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Output.Messages))
	}
	msg := result.Output.Messages[0]
	if msg.Type != core.MessageTranslations {
		t.Errorf("expected MessageTranslations, got %v", msg.Type)
	}
	if msg.ID != "existing.key" {
		t.Errorf("expected literal id 'existing.key', got %q", msg.ID)
	}
}

func TestTransform_DynamicMessageDiagnostic(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(name){
	const t = useExtracted();
	t(` + "`Hello ${name}`" + `);
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})

	if len(result.Output.Messages) != 0 {
		t.Errorf("expected no messages for a dynamic message, got %d", len(result.Output.Messages))
	}
	if len(result.Output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(result.Output.Diagnostics))
	}
	if result.Output.Diagnostics[0].Code != core.DiagDynamicMessage {
		t.Errorf("expected DYNAMIC_MESSAGE_EXPRESSION, got %s", result.Output.Diagnostics[0].Code)
	}
}

func TestTransform_HasCallSuppressesDevFallback(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	if (t.has("Maybe present")) {
		t("Maybe present");
	}
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx", IsDevelopment: true})
	code := string(result.Code)

	id := core.DeriveKey("Maybe present")
	if !strings.Contains(code, `t.has("`+id+`")`) {
		t.Errorf("expected t.has() argument rewritten without a dev fallback, got:\n%s", code)
	}
	if strings.Count(code, "Maybe present") != 1 {
		t.Errorf("expected exactly one surviving dev-fallback occurrence of the message text, got:\n%s", code)
	}
}

func TestTransform_MergesDuplicateMessagesById(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function A(){
	const t = useExtracted();
	t("Shared text");
}
function B(){
	const t = useExtracted();
	t("Shared text");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/shared.tsx"})
	if len(result.Output.Messages) != 1 {
		t.Fatalf("expected duplicate messages to merge into 1, got %d", len(result.Output.Messages))
	}
	if len(result.Output.Messages[0].References) != 2 {
		t.Errorf("expected 2 merged references, got %d", len(result.Output.Messages[0].References))
	}
}

func TestTransform_DependenciesAndDirectives(t *testing.T) {
	source := `"use client";
import {useExtracted} from 'next-intl';
import Other from './other';

function C(){
	const t = useExtracted();
	t("Hi");
	const mod = import("./lazy-mod");
	const Dyn = dynamic(() => import("./dyn-mod"));
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	if !result.Output.HasUseClient {
		t.Error("expected HasUseClient to be true")
	}
	if result.Output.HasUseServer {
		t.Error("expected HasUseServer to be false")
	}

	want := map[string]bool{"next-intl": true, "./other": true, "./lazy-mod": true, "./dyn-mod": true}
	if len(result.Output.Dependencies) != len(want) {
		t.Fatalf("expected %d dependencies, got %d: %v", len(want), len(result.Output.Dependencies), result.Output.Dependencies)
	}
	for _, dep := range result.Output.Dependencies {
		if !want[dep] {
			t.Errorf("unexpected dependency %q", dep)
		}
	}
}

func TestTransform_DependenciesPreserveDuplicatesAndReExports(t *testing.T) {
	source := `import './x';
import './x';
export { a } from './y';
export * from './y';
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})

	deps := result.Output.Dependencies
	countX, countY := 0, 0
	for _, dep := range deps {
		switch dep {
		case "./x":
			countX++
		case "./y":
			countY++
		}
	}
	if countX != 2 {
		t.Errorf("expected './x' to appear twice (duplicates preserved), got %d in %v", countX, deps)
	}
	if countY != 2 {
		t.Errorf("expected './y' to appear twice (two re-export statements), got %d in %v", countY, deps)
	}
}

func TestTransform_ParameterShadowsOuterTranslator(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	function inner(t){
		t("not a translator call");
	}
	inner(t);
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	code := string(result.Code)

	if !strings.Contains(code, "not a translator call") {
		t.Errorf("parameter-shadowed t() should not have been rewritten:\n%s", code)
	}
	if len(result.Output.Messages) != 0 {
		t.Errorf("expected no messages extracted from a shadowed parameter's calls, got %d: %+v", len(result.Output.Messages), result.Output.Messages)
	}
}

func TestTransform_RawMemberCallIsNotATranslatorCall(t *testing.T) {
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	t.raw("untouched");
}
`
	result := transformJS(t, source, core.Config{FilePath: "app/page.tsx"})
	code := string(result.Code)

	if !strings.Contains(code, `t.raw("untouched")`) {
		t.Errorf("expected t.raw(...) to be left untouched, got:\n%s", code)
	}
	if len(result.Output.Messages) != 0 {
		t.Errorf("expected no messages from an unrecognized .raw() call, got %d", len(result.Output.Messages))
	}
}

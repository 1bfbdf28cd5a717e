package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxhq/extracti18n/internal/langts"
)

func TestRunner_WritesRewrittenSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.tsx")
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	t("Hello there");
}
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	files := make(chan DiscoveredFile, 1)
	files <- DiscoveredFile{Path: path, Dialect: langts.DialectTSX}
	close(files)

	runner := NewRunner(RunnerConfig{Concurrency: 2})
	results := runner.Run(context.Background(), files)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if !result.Written {
		t.Error("expected the file to be reported written")
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(rewritten), "useTranslations as $useTranslations1") {
		t.Errorf("expected the import to be rewritten on disk, got:\n%s", rewritten)
	}
	if len(result.Output.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Output.Messages))
	}
}

func TestRunner_DryRunDoesNotTouchDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.tsx")
	source := `import {useExtracted} from 'next-intl';
function C(){
	const t = useExtracted();
	t("Hello there");
}
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	files := make(chan DiscoveredFile, 1)
	files <- DiscoveredFile{Path: path, Dialect: langts.DialectTSX}
	close(files)

	runner := NewRunner(RunnerConfig{Concurrency: 1, DryRun: true})
	results := runner.Run(context.Background(), files)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Written {
		t.Error("dry-run should never report a file as written")
	}
	if results[0].Diff == "" {
		t.Error("expected a non-empty diff for a file that changed")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(onDisk) != source {
		t.Error("dry-run must not modify the file on disk")
	}
}

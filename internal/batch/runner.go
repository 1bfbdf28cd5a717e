package batch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/extracti18n/internal/core"
	"github.com/oxhq/extracti18n/internal/extract"
)

// FileResult is what Runner produces for a single discovered file.
type FileResult struct {
	Path    string
	Output  core.ModuleOutput
	Diff    string // only set in dry-run mode, and only when the file changed
	Written bool
	Err     error
}

// RunnerConfig controls a batch run.
type RunnerConfig struct {
	IsDevelopment bool
	DryRun        bool
	Concurrency   int
}

// Runner applies extract.Transform to every file a Walker discovers,
// concurrently, and either writes the rewritten source atomically or
// (DryRun) computes a unified diff instead of touching disk.
type Runner struct {
	config RunnerConfig
	writer *AtomicWriter
}

// NewRunner constructs a runner with config. It writes through an
// AtomicWriter built with DefaultWriteConfig.
func NewRunner(config RunnerConfig) *Runner {
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	return &Runner{config: config, writer: NewAtomicWriter(DefaultWriteConfig())}
}

// Run consumes files and returns one FileResult per file, in no particular
// order — callers that need a stable order should sort by Path.
func (r *Runner) Run(ctx context.Context, files <-chan DiscoveredFile) []FileResult {
	results := make(chan FileResult, r.config.Concurrency)
	var wg sync.WaitGroup

	for i := 0; i < r.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case file, ok := <-files:
					if !ok {
						return
					}
					select {
					case <-ctx.Done():
						return
					case results <- r.runOne(file):
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []FileResult
	for result := range results {
		out = append(out, result)
	}
	return out
}

func (r *Runner) runOne(file DiscoveredFile) FileResult {
	if file.Error != nil {
		return FileResult{Path: file.Path, Err: file.Error}
	}

	source, err := os.ReadFile(file.Path)
	if err != nil {
		return FileResult{Path: file.Path, Err: fmt.Errorf("reading %s: %w", file.Path, err)}
	}

	result, err := extract.Transform(source, file.Dialect, core.Config{
		IsDevelopment: r.config.IsDevelopment,
		FilePath:      file.Path,
	})
	if err != nil {
		return FileResult{Path: file.Path, Err: err}
	}

	if r.config.DryRun {
		return FileResult{
			Path:   file.Path,
			Output: result.Output,
			Diff:   unifiedDiff(string(source), string(result.Code)),
		}
	}

	if string(source) == string(result.Code) {
		return FileResult{Path: file.Path, Output: result.Output}
	}

	if err := r.writer.WriteFile(file.Path, result.Code); err != nil {
		return FileResult{Path: file.Path, Err: fmt.Errorf("writing %s: %w", file.Path, err)}
	}
	return FileResult{Path: file.Path, Output: result.Output, Written: true}
}

// unifiedDiff renders a three-line-context unified diff, matching the
// teacher's providers/base/provider.go generateDiff.
func unifiedDiff(original, modified string) string {
	if original == modified {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        strings.Split(original, "\n"),
		B:        strings.Split(modified, "\n"),
		FromFile: "original",
		ToFile:   "modified",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- original\n+++ modified\n@@ changes @@\n%d bytes -> %d bytes",
			len(original), len(modified))
	}
	return text
}

// Package batch drives extraction over a directory tree: parallel file
// discovery, per-file Transform invocation, atomic rewrite, and run
// accounting (spec §2.10).
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/extracti18n/internal/langts"
)

// Scope describes what a Walk should traverse, adapted from the teacher's
// core.FileScope to this module's JS/TS-only domain.
type Scope struct {
	Path     string
	Include  []string
	Exclude  []string
	MaxDepth int
	MaxFiles int
}

// DiscoveredFile is a single file Walk handed to its caller.
type DiscoveredFile struct {
	Path    string
	Dialect langts.Dialect
	Error   error
}

// Walker performs parallel directory traversal restricted to extensions
// langts recognizes, matching the teacher's worker-pool-over-channel shape
// (core.FileWalker).
type Walker struct {
	workers    int
	bufferSize int
}

// NewWalker returns a walker sized to the machine, mirroring the teacher's
// 2x-CPU-cores heuristic for I/O-bound work.
func NewWalker() *Walker {
	return &Walker{
		workers:    runtime.NumCPU() * 2,
		bufferSize: 1000,
	}
}

// Walk discovers files under scope.Path and streams them on the returned
// channel, closing it once traversal completes or ctx is canceled.
func (w *Walker) Walk(ctx context.Context, scope Scope) (<-chan DiscoveredFile, error) {
	if scope.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if _, err := os.Stat(scope.Path); err != nil {
		return nil, fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}

	results := make(chan DiscoveredFile, w.bufferSize)
	paths := make(chan string, w.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.worker(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		processed := 0
		w.scanDirectory(ctx, scope.Path, scope, paths, 0, &processed)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

func (w *Walker) worker(ctx context.Context, paths <-chan string, results chan<- DiscoveredFile, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			dialect, recognized := langts.DetectDialect(path)
			if !recognized {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case results <- DiscoveredFile{Path: path, Dialect: dialect}:
			}
		}
	}
}

func (w *Walker) scanDirectory(ctx context.Context, dirPath string, scope Scope, paths chan<- string, depth int, processed *int) {
	if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		if w.isExcluded(fullPath, scope.Exclude) {
			continue
		}

		if entry.IsDir() {
			w.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed)
			continue
		}

		if !isRegularOrSymlinkFile(entry) {
			continue
		}
		if !w.isIncluded(fullPath, scope.Include) {
			continue
		}
		if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
			return
		}
		select {
		case <-ctx.Done():
			return
		case paths <- fullPath:
			*processed++
		}
	}
}

func isRegularOrSymlinkFile(entry fs.DirEntry) bool {
	return entry.Type()&fs.ModeDir == 0
}

func (w *Walker) isIncluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

func (w *Walker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern tries a direct doublestar match first, then falls back to
// matching the basename for patterns without a path separator — the same
// two-step match the teacher's core.FileWalker.matchPattern performs.
func matchPattern(path, pattern string) bool {
	if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		basename := filepath.Base(path)
		if matched, err := doublestar.PathMatch(pattern, basename); err == nil && matched {
			return true
		}
	}
	return false
}

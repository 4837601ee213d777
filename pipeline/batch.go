package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files a Batch analyzes at once.
const DefaultConcurrency = 4

// FileResult is the outcome for one file of a batch.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// BatchOptions configures Batch.
type BatchOptions struct {
	Input       Input
	Concurrency int
}

// Batch analyzes paths in parallel. A failing file does not stop the batch;
// its error is reported in its FileResult. Results keep the order of paths.
// Cancelling ctx stops files that have not started yet.
func (a *Analyzer) Batch(ctx context.Context, paths []string, opts BatchOptions) ([]FileResult, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]FileResult, len(paths))
	var mu sync.Mutex
	var failed int

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := a.AnalyzeFile(gCtx, path, opts.Input)
			if err != nil {
				a.logger.Warn("File analysis failed", "path", path, "error", err)
			}

			mu.Lock()
			results[i] = FileResult{Path: path, Result: res, Err: err}
			if err != nil {
				failed++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	a.logger.Info("Batch complete", "files", len(paths), "failed", failed)
	return results, nil
}

// ExpandPatterns resolves file paths and doublestar glob patterns to a sorted,
// deduplicated list of absolute file paths. A plain path must exist; a
// pattern must match at least one file.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", absPath)
		}
		return []string{absPath}, nil
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// makeAbsolutePattern makes the directory part of pattern absolute and keeps
// the glob part as written.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := strings.IndexAny(pattern, "*?[{")
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	dirPart, globPart := ".", string(filepath.Separator)+pattern
	if lastSep := strings.LastIndexAny(pattern[:globIdx], "/"+string(filepath.Separator)); lastSep >= 0 {
		dirPart, globPart = pattern[:lastSep], pattern[lastSep:]
		if dirPart == "" {
			dirPart = string(filepath.Separator)
		}
	}

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(absDir, string(filepath.Separator)) + filepath.FromSlash(globPart), nil
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html":           "<html></html>",
		"b.jsonld":         "{}",
		"pages/c.html":     "<html></html>",
		"pages/deep/d.htm": "<html></html>",
		"notes.txt":        "x",
	})
	abs := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  bool
	}{
		{
			name:     "plain file",
			patterns: []string{abs("a.html")},
			want:     []string{abs("a.html")},
		},
		{
			name:     "single level glob",
			patterns: []string{filepath.Join(dir, "*.html")},
			want:     []string{abs("a.html")},
		},
		{
			name:     "recursive glob",
			patterns: []string{filepath.Join(dir, "**", "*.{html,htm}")},
			want:     []string{abs("a.html"), abs("pages/c.html"), abs("pages/deep/d.htm")},
		},
		{
			name:     "duplicates removed and sorted",
			patterns: []string{abs("b.jsonld"), filepath.Join(dir, "*"), abs("a.html")},
			want:     []string{abs("a.html"), abs("b.jsonld"), abs("notes.txt")},
		},
		{
			name:     "missing file",
			patterns: []string{abs("missing.html")},
			wantErr:  true,
		},
		{
			name:     "glob without matches",
			patterns: []string{filepath.Join(dir, "*.xml")},
			wantErr:  true,
		},
		{
			name:     "directory is not a file",
			patterns: []string{abs("pages")},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPatterns(tt.patterns)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPatterns_Relative(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"site/x.html": "<html></html>"})
	t.Chdir(dir)

	got, err := ExpandPatterns([]string{"site/*.html"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, filepath.IsAbs(got[0]))
	assert.Equal(t, "x.html", filepath.Base(got[0]))

	got, err = ExpandPatterns([]string{"**/*.html"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMakeAbsolutePattern(t *testing.T) {
	pattern, err := makeAbsolutePattern("/srv/pages/**/*.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/srv/pages/**/*.html"), pattern)

	pattern, err = makeAbsolutePattern("/*.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/*.html"), pattern)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bike.html":    productPage,
		"group.jsonld": groupBlock,
		"broken.json":  "{not json",
	})
	paths := []string{
		filepath.Join(dir, "bike.html"),
		filepath.Join(dir, "broken.json"),
		filepath.Join(dir, "group.jsonld"),
		filepath.Join(dir, "missing.html"),
	}

	metrics := NewMetrics()
	a := newTestAnalyzer(t, WithMetrics(metrics))

	results, err := a.Batch(context.Background(), paths, BatchOptions{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}

	require.NoError(t, results[0].Err)
	assertBikeResult(t, results[0].Result)

	// A block that fails expansion is skipped, not fatal.
	require.NoError(t, results[1].Err)
	assert.Len(t, results[1].Result.Skipped, 1)
	assert.True(t, results[1].Result.Graph.IsEmpty())

	require.NoError(t, results[2].Err)
	assertBikeResult(t, results[2].Result)

	assert.ErrorIs(t, results[3].Err, os.ErrNotExist)
	assert.Nil(t, results[3].Result)
}

func TestBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"group.jsonld": groupBlock})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAnalyzer(t)
	_, err := a.Batch(ctx, []string{filepath.Join(dir, "group.jsonld")}, BatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

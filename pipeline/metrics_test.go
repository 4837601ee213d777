package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsAnalyses(t *testing.T) {
	m := NewMetrics()
	a := newTestAnalyzer(t, WithMetrics(m))
	ctx := context.Background()

	_, err := a.AnalyzeHTML(ctx, []byte(productPage), "https://shop.example/bike")
	require.NoError(t, err)
	_, err = a.AnalyzeExpanded(ctx, []byte(`"scalar"`), "bad")
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.analyses.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.analyses.WithLabelValues("error")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.blocks), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.skippedBlocks), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.productGroups), 0)
	assert.Positive(t, testutil.ToFloat64(m.nodes))
	assert.Positive(t, testutil.ToFloat64(m.edges))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := NewMetrics()
	m.observeFailure()

	path := filepath.Join(t.TempDir(), "semlens.prom")
	require.NoError(t, m.WriteToTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `semlens_analyses_total{outcome="error"} 1`)
	assert.Contains(t, string(content), "# TYPE semlens_analysis_duration_seconds histogram")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
	m.observeFailure()
	m.observe(&Result{})
}

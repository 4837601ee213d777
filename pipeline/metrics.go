package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "semlens"

// Metrics counts analysis work. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analyses      *prometheus.CounterVec
	blocks        prometheus.Counter
	skippedBlocks prometheus.Counter
	nodes         prometheus.Counter
	edges         prometheus.Counter
	productGroups prometheus.Counter
	duration      prometheus.Histogram
}

// NewMetrics creates Metrics registered on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Pages and files analyzed, by outcome.",
		}, []string{"outcome"}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jsonld_blocks_total",
			Help:      "JSON-LD blocks found.",
		}),
		skippedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jsonld_blocks_skipped_total",
			Help:      "JSON-LD blocks that failed expansion.",
		}),
		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "graph_nodes_total",
			Help:      "Knowledge graph nodes built.",
		}),
		edges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "graph_edges_total",
			Help:      "Knowledge graph edges built.",
		}),
		productGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "product_groups_total",
			Help:      "Product groups summarized.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing one page or file.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.blocks,
		m.skippedBlocks,
		m.nodes,
		m.edges,
		m.productGroups,
		m.duration,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteToTextfile writes the metrics in the Prometheus text format, for the
// node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(res *Result) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues("ok").Inc()
	m.blocks.Add(float64(len(res.Blocks)))
	m.skippedBlocks.Add(float64(len(res.Skipped)))
	if res.Graph != nil {
		m.nodes.Add(float64(len(res.Graph.Nodes)))
		m.edges.Add(float64(len(res.Graph.Edges)))
	}
	if res.Insights != nil {
		m.productGroups.Add(float64(len(res.Insights.ProductGroups)))
	}
	m.duration.Observe(res.Duration.Seconds())
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues("error").Inc()
}

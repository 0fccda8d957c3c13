// Package observability wires the ambient metrics, tracing, and diagnostic
// stream shared by the parser, resolver, graph builder, and layout engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ts_callpath_parse_seconds",
		Help:    "Time spent parsing a single source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ts_callpath_graph_nodes_total",
		Help: "Number of FunctionNodes in the most recently built call graph.",
	})

	GraphEdgesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ts_callpath_graph_edges_total",
		Help: "Number of CallEdges in the most recently built call graph.",
	})

	TraversalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ts_callpath_traversal_seconds",
		Help:    "Time spent on a single bounded forward traversal from one source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	LayoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ts_callpath_layout_seconds",
		Help:    "Time spent computing a LayoutResult.",
		Buckets: prometheus.DefBuckets,
	})

	DiagnosticsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ts_callpath_diagnostics_total",
		Help: "Total diagnostics emitted on the verbose channel, by category.",
	}, []string{"category"})

	NodeCapHitTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ts_callpath_node_cap_hits_total",
		Help: "Total traversals that terminated early because maxNodes was reached.",
	})
)

package callgraph

import (
	"context"
	"time"

	"github.com/drivasperez/ts-callpath/internal/observability"
)

// Bounds caps a single traversal's size and depth.
type Bounds struct {
	MaxDepth int
	MaxNodes int
}

// DefaultBounds matches the ceilings a CLI invocation falls back to when
// the user supplies none.
var DefaultBounds = Bounds{MaxDepth: 12, MaxNodes: 2000}

// Builder runs bounded forward traversals over a SourceIndex and merges
// them into one CallGraph. A Builder is scoped to a single build: its
// visited-node bookkeeping does not outlive one Build/BuildAll call, but
// the SourceIndex it wraps may cache parsed files across many builds.
type Builder struct {
	index  SourceIndex
	bounds Bounds
	sink   observability.Sink
}

// NewBuilder returns a Builder over index, bounded by bounds. A zero
// Bounds is replaced by DefaultBounds. sink may be nil to discard
// diagnostics.
func NewBuilder(index SourceIndex, bounds Bounds, sink observability.Sink) *Builder {
	if bounds.MaxDepth <= 0 && bounds.MaxNodes <= 0 {
		bounds = DefaultBounds
	}
	return &Builder{index: index, bounds: bounds, sink: sink}
}

type queueItem struct {
	id    FunctionId
	depth int
}

// Build runs one bounded forward traversal from source and returns the
// resulting graph. An unresolvable source yields an empty graph, not an
// error: file and resolution faults are always recoverable, never fatal.
func (b *Builder) Build(ctx context.Context, source FunctionId) *CallGraph {
	ctx, span := observability.Tracer().Start(ctx, "callgraph.Build")
	defer span.End()

	start := time.Now()
	g := NewCallGraph()

	resolvedSource, err := b.index.NormalizeStart(ctx, source)
	if err != nil {
		b.emitResolutionFault(source, err)
		observability.TraversalDuration.WithLabelValues("unresolved_source").Observe(time.Since(start).Seconds())
		return g
	}

	g.AddNode(b.toNode(ctx, resolvedSource, false))

	visited := map[FunctionId]bool{resolvedSource: true}
	queue := []queueItem{{id: resolvedSource, depth: 0}}

	outcome := "completed"
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.depth == b.bounds.MaxDepth {
			continue
		}
		if g.NodeCount() >= b.bounds.MaxNodes {
			observability.NodeCapHitTotal.Inc()
			outcome = "node_cap"
			break
		}

		calls, err := b.index.CallsFrom(ctx, item.id)
		if err != nil {
			b.emitResolutionFault(item.id, err)
			continue
		}

		for _, call := range calls {
			if call.Callee == item.id {
				continue // self-edge, always dropped
			}

			g.AddNode(b.toNode(ctx, call.Callee, call.IsExternal))
			g.AddEdge(CallEdge{
				Caller:   item.id,
				Callee:   call.Callee,
				Kind:     call.Kind,
				CallLine: call.CallLine,
			})

			if call.IsExternal {
				continue // external nodes are leaves, never enqueued
			}
			if visited[call.Callee] {
				continue
			}
			visited[call.Callee] = true
			queue = append(queue, queueItem{id: call.Callee, depth: item.depth + 1})
		}
	}

	observability.TraversalDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return g
}

// BuildAll runs Build independently for every id in sources and merges the
// results pairwise: nodes union with first-write-wins, edges appended with
// the same edge-key deduplication Build itself uses.
func (b *Builder) BuildAll(ctx context.Context, sources []FunctionId) *CallGraph {
	merged := NewCallGraph()
	for _, source := range sources {
		merged.Merge(b.Build(ctx, source))
	}
	observability.GraphNodesTotal.Set(float64(merged.NodeCount()))
	observability.GraphEdgesTotal.Set(float64(merged.EdgeCount()))
	return merged
}

// toNode builds the FunctionNode for id, filling FirstLine/LastLine/
// IsInstrumented from the index's FunctionsInFile when available. A node
// the index cannot describe (an external leaf, or a file fault) still gets
// inserted, just without that extra detail: a missing line range never
// blocks traversal.
func (b *Builder) toNode(ctx context.Context, id FunctionId, isExternal bool) FunctionNode {
	node := FunctionNode{
		Id:            id,
		FilePath:      id.FilePath,
		QualifiedName: id.QualifiedName,
		IsExternal:    isExternal,
	}
	if isExternal {
		return node
	}
	infos, err := b.index.FunctionsInFile(ctx, id.FilePath)
	if err != nil {
		if b.sink != nil {
			b.sink.Emit(observability.Diagnostic{
				Category: observability.DiagFileFault,
				File:     id.FilePath,
				Message:  err.Error(),
			})
		}
		return node
	}
	for _, info := range infos {
		if info.Id == id {
			node.FirstLine = info.FirstLine
			node.LastLine = info.LastLine
			node.IsInstrumented = info.IsInstrumented
			break
		}
	}
	return node
}

func (b *Builder) emitResolutionFault(caller FunctionId, err error) {
	if b.sink == nil {
		return
	}
	b.sink.Emit(observability.Diagnostic{
		Category: observability.DiagResolutionFault,
		Caller:   caller.QualifiedName,
		File:     caller.FilePath,
		Message:  err.Error(),
	})
}

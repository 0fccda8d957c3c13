package callgraph

import (
	"context"
	"errors"
	"testing"
)

// fakeIndex is an in-memory SourceIndex used to exercise the Builder
// without a real parser or resolver.
type fakeIndex struct {
	files        map[string]bool
	calls        map[FunctionId][]CallInfo
	rewrites     map[FunctionId]FunctionId
	unresolvable map[FunctionId]bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		files:        make(map[string]bool),
		calls:        make(map[FunctionId][]CallInfo),
		rewrites:     make(map[FunctionId]FunctionId),
		unresolvable: make(map[FunctionId]bool),
	}
}

func (f *fakeIndex) FunctionsInFile(ctx context.Context, path string) ([]FunctionInfo, error) {
	if !f.files[path] {
		return nil, errors.New("no such file: " + path)
	}
	return nil, nil
}

func (f *fakeIndex) CallsFrom(ctx context.Context, id FunctionId) ([]CallInfo, error) {
	return f.calls[id], nil
}

func (f *fakeIndex) NormalizeStart(ctx context.Context, id FunctionId) (FunctionId, error) {
	if f.unresolvable[id] {
		return FunctionId{}, errors.New("cannot resolve start: " + id.QualifiedName)
	}
	if rewritten, ok := f.rewrites[id]; ok {
		return rewritten, nil
	}
	return id, nil
}

func TestBuilder_DiamondCallsProduceOneMergedGraph(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	top := fid("a.ts", "top")
	left := fid("a.ts", "left")
	right := fid("a.ts", "right")
	bottom := fid("a.ts", "bottom")

	idx.calls[top] = []CallInfo{
		{Callee: left, Kind: EdgeDirect},
		{Callee: right, Kind: EdgeDirect},
	}
	idx.calls[left] = []CallInfo{{Callee: bottom, Kind: EdgeDirect}}
	idx.calls[right] = []CallInfo{{Callee: bottom, Kind: EdgeDirect}}

	b := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := b.Build(context.Background(), top)

	if g.NodeCount() != 4 {
		t.Fatalf("expected 4 nodes (top, left, right, bottom), got %d", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Fatalf("expected 4 edges, got %d", g.EdgeCount())
	}
	if len(g.Predecessors(bottom)) != 2 {
		t.Fatalf("expected bottom to have 2 distinct predecessors, got %d", len(g.Predecessors(bottom)))
	}
}

func TestBuilder_MaxDepthStopsExpansionNotInsertion(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	a, b, c := fid("a.ts", "a"), fid("a.ts", "b"), fid("a.ts", "c")
	idx.calls[a] = []CallInfo{{Callee: b, Kind: EdgeDirect}}
	idx.calls[b] = []CallInfo{{Callee: c, Kind: EdgeDirect}}

	builder := NewBuilder(idx, Bounds{MaxDepth: 1, MaxNodes: 100}, nil)
	g := builder.Build(context.Background(), a)

	// b is reached at depth 1 and inserted, but its own calls (depth 1 ==
	// maxDepth) are never expanded, so c must be absent.
	if !g.HasNode(b) {
		t.Fatal("expected b to be present")
	}
	if g.HasNode(c) {
		t.Fatal("expected c to be absent: b's expansion is beyond maxDepth")
	}
}

func TestBuilder_MaxNodesTerminatesTraversal(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	a, b, c, d := fid("a.ts", "a"), fid("a.ts", "b"), fid("a.ts", "c"), fid("a.ts", "d")
	idx.calls[a] = []CallInfo{{Callee: b, Kind: EdgeDirect}}
	idx.calls[b] = []CallInfo{{Callee: c, Kind: EdgeDirect}}
	idx.calls[c] = []CallInfo{{Callee: d, Kind: EdgeDirect}}

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 2}, nil)
	g := builder.Build(context.Background(), a)

	if g.NodeCount() > 2 {
		t.Fatalf("expected node count to never exceed maxNodes=2, got %d", g.NodeCount())
	}
}

func TestBuilder_SelfEdgeIsDropped(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	recurse := fid("a.ts", "recurse")
	idx.calls[recurse] = []CallInfo{{Callee: recurse, Kind: EdgeDirect}}

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := builder.Build(context.Background(), recurse)

	if g.EdgeCount() != 0 {
		t.Fatalf("expected self-edge to be dropped, got %d edges", g.EdgeCount())
	}
	if g.NodeCount() != 1 {
		t.Fatalf("expected only the source node, got %d", g.NodeCount())
	}
}

func TestBuilder_ExternalCalleesAreLeavesNeverEnqueued(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	caller := fid("a.ts", "caller")
	external := FunctionId{FilePath: ExternalFilePrefix + "lodash", QualifiedName: "debounce"}
	idx.calls[caller] = []CallInfo{{Callee: external, Kind: EdgeExternal, IsExternal: true}}
	// If external were wrongly enqueued, this would blow up the graph.
	idx.calls[external] = []CallInfo{{Callee: fid("a.ts", "ghost"), Kind: EdgeDirect}}

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := builder.Build(context.Background(), caller)

	if g.HasNode(fid("a.ts", "ghost")) {
		t.Fatal("expected external node's calls to never be explored")
	}
	node, ok := g.Node(external)
	if !ok || !node.IsExternal {
		t.Fatal("expected external node to be present and flagged external")
	}
}

func TestBuilder_UnresolvableStartYieldsEmptyGraph(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	broken := fid("a.ts", "Obj.missingMethod")
	idx.unresolvable[broken] = true

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := builder.Build(context.Background(), broken)

	if g.NodeCount() != 0 {
		t.Fatalf("expected empty graph for unresolvable start, got %d nodes", g.NodeCount())
	}
}

func TestBuilder_StartIsRewrittenThroughObjectBindingMap(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true

	userProvided := fid("a.ts", "Obj.prop")
	actual := fid("a.ts", "actualFn")
	idx.rewrites[userProvided] = actual

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := builder.Build(context.Background(), userProvided)

	if !g.HasNode(actual) {
		t.Fatal("expected the rewritten id to be the graph's single node")
	}
	if g.HasNode(userProvided) {
		t.Fatal("did not expect the original unrewritten id to appear in the graph")
	}
}

func TestBuilder_BuildAllMergesMultipleSources(t *testing.T) {
	idx := newFakeIndex()
	idx.files["a.ts"] = true
	idx.files["b.ts"] = true

	src1, src2, shared := fid("a.ts", "src1"), fid("b.ts", "src2"), fid("a.ts", "shared")
	idx.calls[src1] = []CallInfo{{Callee: shared, Kind: EdgeDirect}}
	idx.calls[src2] = []CallInfo{{Callee: shared, Kind: EdgeDirect}}

	builder := NewBuilder(idx, Bounds{MaxDepth: 10, MaxNodes: 100}, nil)
	g := builder.BuildAll(context.Background(), []FunctionId{src1, src2})

	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes across both per-source graphs, got %d", g.NodeCount())
	}
	if len(g.Predecessors(shared)) != 2 {
		t.Fatalf("expected shared to have 2 predecessors after merge, got %d", len(g.Predecessors(shared)))
	}
}

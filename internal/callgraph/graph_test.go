package callgraph

import "testing"

func fid(path, name string) FunctionId {
	return FunctionId{FilePath: path, QualifiedName: name}
}

func TestCallGraph_AddNodeIsIdempotent(t *testing.T) {
	g := NewCallGraph()
	n := FunctionNode{Id: fid("a.ts", "foo"), FirstLine: 1, LastLine: 3}

	if !g.AddNode(n) {
		t.Fatal("expected first insert to report true")
	}
	if g.AddNode(FunctionNode{Id: n.Id, FirstLine: 99}) {
		t.Fatal("expected second insert of same id to report false")
	}

	got, ok := g.Node(n.Id)
	if !ok {
		t.Fatal("expected node to be present")
	}
	if got.FirstLine != 1 {
		t.Fatalf("expected original node to be untouched, got FirstLine=%d", got.FirstLine)
	}
}

func TestCallGraph_AddEdgeDedupesByKeyKeepingFirst(t *testing.T) {
	g := NewCallGraph()
	caller := fid("a.ts", "foo")
	callee := fid("b.ts", "bar")
	g.AddNode(FunctionNode{Id: caller})
	g.AddNode(FunctionNode{Id: callee})

	if !g.AddEdge(CallEdge{Caller: caller, Callee: callee, Kind: EdgeDirect, CallLine: 5}) {
		t.Fatal("expected first edge insert to report true")
	}
	if g.AddEdge(CallEdge{Caller: caller, Callee: callee, Kind: EdgeStaticMethod, CallLine: 40}) {
		t.Fatal("expected parallel edge to be dropped")
	}

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 deduplicated edge, got %d", len(edges))
	}
	if edges[0].Kind != EdgeDirect || edges[0].CallLine != 5 {
		t.Fatalf("expected first-seen kind/line preserved, got %+v", edges[0])
	}
}

func TestCallGraph_AddEdgeRefusesSelfEdge(t *testing.T) {
	g := NewCallGraph()
	self := fid("a.ts", "foo")
	g.AddNode(FunctionNode{Id: self})

	if g.AddEdge(CallEdge{Caller: self, Callee: self, Kind: EdgeDirect}) {
		t.Fatal("expected self-edge to be refused")
	}
	if g.EdgeCount() != 0 {
		t.Fatalf("expected 0 edges, got %d", g.EdgeCount())
	}
}

func TestCallGraph_SuccessorsAndPredecessors(t *testing.T) {
	g := NewCallGraph()
	a, b, c := fid("x.ts", "a"), fid("x.ts", "b"), fid("x.ts", "c")
	for _, n := range []FunctionId{a, b, c} {
		g.AddNode(FunctionNode{Id: n})
	}
	g.AddEdge(CallEdge{Caller: a, Callee: b, Kind: EdgeDirect})
	g.AddEdge(CallEdge{Caller: a, Callee: c, Kind: EdgeDirect})

	succ := g.Successors(a)
	if len(succ) != 2 {
		t.Fatalf("expected 2 successors of a, got %d", len(succ))
	}

	pred := g.Predecessors(b)
	if len(pred) != 1 || pred[0] != a {
		t.Fatalf("expected b's sole predecessor to be a, got %v", pred)
	}
}

func TestCallGraph_MergeUnionsNodesAndDedupesEdges(t *testing.T) {
	g1 := NewCallGraph()
	g2 := NewCallGraph()
	a, b := fid("x.ts", "a"), fid("x.ts", "b")

	g1.AddNode(FunctionNode{Id: a, FirstLine: 1})
	g1.AddNode(FunctionNode{Id: b})
	g1.AddEdge(CallEdge{Caller: a, Callee: b, Kind: EdgeDirect, CallLine: 1})

	g2.AddNode(FunctionNode{Id: a, FirstLine: 999}) // should lose to g1's first-write-wins
	g2.AddNode(FunctionNode{Id: b})
	g2.AddEdge(CallEdge{Caller: a, Callee: b, Kind: EdgeStaticMethod, CallLine: 2})

	g1.Merge(g2)

	node, _ := g1.Node(a)
	if node.FirstLine != 1 {
		t.Fatalf("expected first-write-wins node, got FirstLine=%d", node.FirstLine)
	}
	if g1.EdgeCount() != 1 {
		t.Fatalf("expected merge to dedupe the parallel edge, got %d edges", g1.EdgeCount())
	}
}

func TestCallGraph_ValidateCatchesSelfEdgeAndUnknownKind(t *testing.T) {
	g := NewCallGraph()
	a := fid("x.ts", "a")
	g.AddNode(FunctionNode{Id: a})

	if err := g.Validate(); err != nil {
		t.Fatalf("expected empty graph to validate, got %v", err)
	}

	// Inject a malformed edge directly, bypassing AddEdge's own guards, to
	// exercise Validate's independent invariant check.
	g.edges = append(g.edges, CallEdge{Caller: a, Callee: a, Kind: EdgeDirect})
	if err := g.Validate(); err == nil {
		t.Fatal("expected Validate to reject a self-edge")
	}

	g.edges = nil
	b := fid("x.ts", "b")
	g.AddNode(FunctionNode{Id: b})
	g.edges = append(g.edges, CallEdge{Caller: a, Callee: b, Kind: EdgeKind("bogus")})
	if err := g.Validate(); err == nil {
		t.Fatal("expected Validate to reject an unrecognized edge kind")
	}
}

func TestCallGraph_ExternalNodeHasNoOutgoingEdges(t *testing.T) {
	g := NewCallGraph()
	caller := fid("a.ts", "foo")
	external := FunctionId{FilePath: ExternalFilePrefix + "lodash", QualifiedName: "debounce"}
	g.AddNode(FunctionNode{Id: caller})
	g.AddNode(FunctionNode{Id: external, IsExternal: true})
	g.AddEdge(CallEdge{Caller: caller, Callee: external, Kind: EdgeExternal})

	if err := g.Validate(); err != nil {
		t.Fatalf("expected valid graph, got %v", err)
	}
	if len(g.Successors(external)) != 0 {
		t.Fatal("expected external node to have no outgoing edges")
	}
}

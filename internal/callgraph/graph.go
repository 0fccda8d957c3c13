package callgraph

import (
	"sort"
)

// CallGraph is a set of FunctionNodes keyed by FunctionId plus an ordered,
// deduplicated set of CallEdges. Arena-plus-index storage interns each
// FunctionId into a dense integer so traversal and slicing work over index
// slices instead of map lookups on the hot path.
type CallGraph struct {
	ids   map[FunctionId]int
	nodes []FunctionNode

	edgeIndex map[string]int // edgeKey -> index into edges, for dedup
	edges     []CallEdge

	fwd map[int][]int // node index -> adjacent node indices (forward)
	rev map[int][]int // node index -> adjacent node indices (reverse)
}

// NewCallGraph returns an empty graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		ids:       make(map[FunctionId]int),
		edgeIndex: make(map[string]int),
		fwd:       make(map[int][]int),
		rev:       make(map[int][]int),
	}
}

// internID returns the dense index for id, creating a new FunctionNode
// (uninitialized beyond its Id) if id is not yet present.
func (g *CallGraph) internID(id FunctionId) int {
	if idx, ok := g.ids[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, FunctionNode{Id: id, FilePath: id.FilePath, QualifiedName: id.QualifiedName})
	g.ids[id] = idx
	return idx
}

// AddNode inserts node if its id is not already present; an existing node
// is left untouched, since FunctionNodes are never mutated once built.
// Returns true if a new node was inserted.
func (g *CallGraph) AddNode(node FunctionNode) bool {
	if _, ok := g.ids[node.Id]; ok {
		return false
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node)
	g.ids[node.Id] = idx
	return true
}

// HasNode reports whether id is present in the graph.
func (g *CallGraph) HasNode(id FunctionId) bool {
	_, ok := g.ids[id]
	return ok
}

// Node returns the FunctionNode for id, if present.
func (g *CallGraph) Node(id FunctionId) (FunctionNode, bool) {
	idx, ok := g.ids[id]
	if !ok {
		return FunctionNode{}, false
	}
	return g.nodes[idx], true
}

// NodeCount returns the number of FunctionNodes currently in the graph.
func (g *CallGraph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns a defensive copy of every FunctionNode, in insertion order.
func (g *CallGraph) Nodes() []FunctionNode {
	out := make([]FunctionNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a defensive copy of every CallEdge, in first-seen order.
func (g *CallGraph) Edges() []CallEdge {
	out := make([]CallEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeCount returns the number of deduplicated CallEdges.
func (g *CallGraph) EdgeCount() int {
	return len(g.edges)
}

// AddEdge appends edge unless (caller, callee) was already seen, in which
// case the existing edge (its kind and line) is kept: parallel call edges
// in the source collapse to one graph edge, preserving the first-seen call
// line and edge kind. An endpoint that is not yet a node of the graph is
// added as a bare node carrying only its id, file path and qualified name.
// Self-edges are refused. Returns true if a new edge was appended.
func (g *CallGraph) AddEdge(edge CallEdge) bool {
	if edge.Caller == edge.Callee {
		return false
	}
	key := edgeKey(edge.Caller, edge.Callee)
	if _, seen := g.edgeIndex[key]; seen {
		return false
	}
	idx := len(g.edges)
	g.edges = append(g.edges, edge)
	g.edgeIndex[key] = idx

	fromIdx := g.internID(edge.Caller)
	toIdx := g.internID(edge.Callee)
	g.fwd[fromIdx] = append(g.fwd[fromIdx], toIdx)
	g.rev[toIdx] = append(g.rev[toIdx], fromIdx)
	return true
}

// HasEdge reports whether an edge from caller to callee already exists.
func (g *CallGraph) HasEdge(caller, callee FunctionId) bool {
	_, ok := g.edgeIndex[edgeKey(caller, callee)]
	return ok
}

// Successors returns the distinct callee ids reachable by one hop from id.
func (g *CallGraph) Successors(id FunctionId) []FunctionId {
	idx, ok := g.ids[id]
	if !ok {
		return nil
	}
	return g.idsOf(g.fwd[idx])
}

// Predecessors returns the distinct caller ids that reach id in one hop.
func (g *CallGraph) Predecessors(id FunctionId) []FunctionId {
	idx, ok := g.ids[id]
	if !ok {
		return nil
	}
	return g.idsOf(g.rev[idx])
}

func (g *CallGraph) idsOf(indices []int) []FunctionId {
	out := make([]FunctionId, len(indices))
	for i, idx := range indices {
		out[i] = g.nodes[idx].Id
	}
	return out
}

// Merge unions other into g: nodes union with first-write-wins, edges are
// appended with the same edge-key deduplication as AddEdge. Used to
// combine the per-source graphs produced by BuildAll.
func (g *CallGraph) Merge(other *CallGraph) {
	if other == nil {
		return
	}
	for _, n := range other.nodes {
		g.AddNode(n)
	}
	for _, e := range other.edges {
		g.AddEdge(e)
	}
}

// Clone returns a deep, independent copy of g.
func (g *CallGraph) Clone() *CallGraph {
	c := NewCallGraph()
	for _, n := range g.nodes {
		c.AddNode(n)
	}
	for _, e := range g.edges {
		c.AddEdge(e)
	}
	return c
}

// Validate checks the graph's core invariants: every edge's endpoints are
// nodes of the same graph, no self-edges exist, no duplicate edges exist,
// every edge carries a recognized EdgeKind, and no external node has
// outgoing edges. A violation here is an internal invariant violation,
// fatal to the caller.
func (g *CallGraph) Validate() error {
	for _, e := range g.edges {
		if e.Caller == e.Callee {
			return &invariantError{"self-edge present: " + e.Caller.QualifiedName}
		}
		if !g.HasNode(e.Caller) {
			return &invariantError{"edge caller not a node of the graph: " + e.Caller.QualifiedName}
		}
		if !g.HasNode(e.Callee) {
			return &invariantError{"edge callee not a node of the graph: " + e.Callee.QualifiedName}
		}
		if !ValidEdgeKind(e.Kind) {
			return &invariantError{"unrecognized edge kind: " + string(e.Kind)}
		}
	}
	seen := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		key := edgeKey(e.Caller, e.Callee)
		if seen[key] {
			return &invariantError{"duplicate edge: " + e.Caller.QualifiedName + " -> " + e.Callee.QualifiedName}
		}
		seen[key] = true
	}
	for _, n := range g.nodes {
		if n.IsExternal {
			if len(g.Successors(n.Id)) != 0 {
				return &invariantError{"external node has outgoing edges: " + n.QualifiedName}
			}
		}
	}
	return nil
}

type invariantError struct{ msg string }

func (e *invariantError) Error() string { return e.msg }

// SortedNodes returns Nodes() sorted by (FilePath, QualifiedName), useful
// for deterministic output (Graphviz/JSON renderers, tests).
func (g *CallGraph) SortedNodes() []FunctionNode {
	out := g.Nodes()
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].QualifiedName < out[j].QualifiedName
	})
	return out
}

// SortedEdges returns Edges() sorted by (caller, callee) for deterministic
// output.
func (g *CallGraph) SortedEdges() []CallEdge {
	out := g.Edges()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Caller != b.Caller {
			return lessID(a.Caller, b.Caller)
		}
		return lessID(a.Callee, b.Callee)
	})
	return out
}

func lessID(a, b FunctionId) bool {
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	return a.QualifiedName < b.QualifiedName
}

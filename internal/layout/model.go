package layout

import "github.com/drivasperez/ts-callpath/internal/callgraph"

// wNode is one node of the working graph the layout pipeline mutates as it
// progresses through collapse, layering, and dummy insertion. Real nodes
// carry a FunctionId-derived key; dummies and collapsed nodes carry a
// synthetic one.
type wNode struct {
	key         string
	filePath    string
	label       string
	isDummy     bool
	isCollapsed bool
	foldedCount int
	layer       int
	order       int // position within its layer, assigned by step 5

	x, y, width, height float64
}

// wEdge is one edge of the working graph: its endpoints, its edge kind and
// call line, and whether it was marked as a back-edge.
type wEdge struct {
	from, to   string
	kind       callgraph.EdgeKind
	callLine   int
	isBackedge bool
}

// origEdge remembers the endpoints and metadata of one pre-dummy-insertion
// edge, keyed by its position, so step 8 can reconstruct each edge's full
// waypoint chain after step 4 has spliced dummies into the working graph.
type origEdge struct {
	from, to   string
	kind       callgraph.EdgeKind
	callLine   int
	isBackedge bool
	// chain is the sequence of node keys from `from` to `to`, inclusive,
	// through any inserted dummies. Populated by step 4.
	chain []string
}

type workGraph struct {
	nodes map[string]*wNode
	order []string // insertion order, for deterministic iteration

	// edges is the adjacency the backedge/layering passes consume: one
	// entry per original (post-collapse, pre-dummy) edge.
	edges []origEdge

	fwd map[string][]int // node key -> indices into edges, forward
	rev map[string][]int // node key -> indices into edges, reverse
}

func newWorkGraph() *workGraph {
	return &workGraph{
		nodes: make(map[string]*wNode),
		fwd:   make(map[string][]int),
		rev:   make(map[string][]int),
	}
}

func (g *workGraph) addNode(n *wNode) {
	if _, ok := g.nodes[n.key]; ok {
		return
	}
	g.nodes[n.key] = n
	g.order = append(g.order, n.key)
}

func (g *workGraph) addEdge(e origEdge) {
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.fwd[e.from] = append(g.fwd[e.from], idx)
	g.rev[e.to] = append(g.rev[e.to], idx)
}

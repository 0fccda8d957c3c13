// Package layout arranges a callgraph.CallGraph into a layered,
// cluster-aware drawing: collapsing requested files into single nodes,
// detecting backedges, assigning layers and within-layer order by
// barycenter sweeps, assigning coordinates along a flow and a cross axis,
// routing edges through any dummy nodes, and computing cluster rectangles.
// The engine is pure: no I/O, no time-dependent behavior, and identical
// inputs always produce a structurally equal LayoutResult.
package layout

import "github.com/drivasperez/ts-callpath/internal/callgraph"

// Direction is the axis layers progress along.
type Direction int

const (
	TopToBottom Direction = iota
	LeftToRight
)

// Point is one waypoint of a routed edge.
type Point struct {
	X float64
	Y float64
}

// NodeBox is one positioned node: either a real FunctionId or a dummy
// inserted to carry a long edge through its intermediate layers.
type NodeBox struct {
	Id         string // node key: FunctionId.FilePath+"\x00"+QualifiedName, or a dummy/collapsed key
	FilePath   string
	Label      string
	Layer      int
	X          float64
	Y          float64
	Width      float64
	Height     float64
	IsDummy     bool
	IsCollapsed bool
	FoldedCount int // number of real nodes folded into a collapsed node
}

// RoutedEdge is one original graph edge with its full waypoint chain
// (through any dummies) resolved to drawing coordinates.
type RoutedEdge struct {
	Caller     string
	Callee     string
	Kind       callgraph.EdgeKind
	CallLine   int
	Waypoints  []Point
	IsBackedge bool
}

// ClusterBox is the bounding rectangle of one non-collapsed file's nodes,
// padded for a header label and optional owner chips.
type ClusterBox struct {
	FilePath string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Owners   []string
}

// OwnerRule is one CODEOWNERS-style entry: a glob path pattern plus the
// owners it assigns. Rules are evaluated in order and, matching
// CODEOWNERS semantics, the last matching rule wins.
type OwnerRule struct {
	Pattern string
	Owners  []string
}

// LayoutResult is the pure output of Layout: positioned nodes, clustered
// file boxes, routed edges, and the file ordering to feed back into the
// next call for stability.
type LayoutResult struct {
	Nodes        []NodeBox
	Edges        []RoutedEdge
	Clusters     []ClusterBox
	FileOrdering []string
}

// Options configures one Layout call.
type Options struct {
	Direction    Direction
	Collapsed    map[string]bool   // file paths to fold into one synthetic node
	PrevOrdering []string          // previous FileOrdering, for stable re-layout
	Owners       []OwnerRule                   // CODEOWNERS-style pattern -> owners table
	Sources      map[callgraph.FunctionId]bool // graph sources, preferred as DFS start points
}

const (
	layerGap        = 80.0
	nodeHeight      = 40.0
	dummyFlowSize   = 1.0
	charWidth       = 7.0
	labelPadding    = 24.0
	clusterPadding  = 20.0
	clusterHeaderPad = 44.0
	clusterGap      = 40.0
	withinLayerGap  = 24.0
)

func nodeKey(id callgraph.FunctionId) string {
	return id.FilePath + "\x00" + id.QualifiedName
}

func collapsedKey(filePath string) string {
	return "__collapsed:" + filePath
}

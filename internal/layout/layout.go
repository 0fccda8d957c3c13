package layout

import (
	"sort"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
)

// Layout arranges g into a layered, cluster-aware drawing per opts. It is
// pure: it performs no I/O, reads no clock, and identical inputs always
// produce a structurally equal LayoutResult, so repeated calls with the
// same graph and the same previous ordering keep every cluster's relative
// horizontal position stable as the caller collapses or expands files.
func Layout(g *callgraph.CallGraph, opts Options) LayoutResult {
	wg := collapse(g, opts.Collapsed)

	sources := translateSources(wg, opts.Sources, opts.Collapsed)
	markBackedges(wg, sources)

	layer := assignLayers(wg)
	for k, l := range layer {
		wg.nodes[k].layer = l
	}
	insertDummies(wg, layer)
	for k, l := range layer {
		wg.nodes[k].layer = l
	}

	maxLayer := 0
	for _, l := range layer {
		if l > maxLayer {
			maxLayer = l
		}
	}

	byLayer := orderWithinLayers(wg, layer, opts.PrevOrdering)
	clusterOrder := deriveClusterOrder(wg, byLayer, maxLayer, opts.PrevOrdering)

	assignCoordinates(wg, byLayer, maxLayer, clusterOrder, opts.Direction)
	outside := maxCrossExtent(wg, opts.Direction)
	routed := routeEdges(wg, opts.Direction, outside)
	rects := clusterRects(wg, opts.Owners)

	return LayoutResult{
		Nodes:        collectNodeBoxes(wg),
		Edges:        routed,
		Clusters:     rects,
		FileOrdering: clusterOrder,
	}
}

// translateSources maps the caller's FunctionId-keyed source preference
// set onto working-graph node keys, folding a source inside a collapsed
// file onto that file's synthetic node.
func translateSources(wg *workGraph, sources map[callgraph.FunctionId]bool, collapsed map[string]bool) map[string]bool {
	if len(sources) == 0 {
		return nil
	}
	keyFor := collapseKeyFunc(collapsed)
	out := make(map[string]bool, len(sources))
	for id := range sources {
		key := keyFor(id)
		if _, ok := wg.nodes[key]; ok {
			out[key] = true
		}
	}
	return out
}

func collectNodeBoxes(wg *workGraph) []NodeBox {
	out := make([]NodeBox, 0, len(wg.order))
	for _, k := range wg.order {
		n := wg.nodes[k]
		out = append(out, NodeBox{
			Id:          n.key,
			FilePath:    n.filePath,
			Label:       n.label,
			Layer:       n.layer,
			X:           n.x,
			Y:           n.y,
			Width:       n.width,
			Height:      n.height,
			IsDummy:     n.isDummy,
			IsCollapsed: n.isCollapsed,
			FoldedCount: n.foldedCount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

package layout

import "github.com/drivasperez/ts-callpath/internal/callgraph"

// collapse builds the initial working graph from g: every node in a
// collapsed file is removed and replaced by one synthetic node, edges
// incident on removed nodes are remapped to it, self-loops on the
// synthetic node are dropped, and duplicate (endpoints, kind) edges are
// dropped.
func collapse(g *callgraph.CallGraph, collapsed map[string]bool) *workGraph {
	wg := newWorkGraph()
	keyFor := collapseKeyFunc(collapsed)

	for _, n := range g.SortedNodes() {
		key := keyFor(n.Id)
		if collapsed[n.FilePath] {
			if existing, ok := wg.nodes[key]; ok {
				existing.foldedCount++
				continue
			}
			wg.addNode(&wNode{
				key:         key,
				filePath:    n.FilePath,
				label:       n.FilePath,
				isCollapsed: true,
				foldedCount: 1,
			})
			continue
		}
		wg.addNode(&wNode{
			key:      key,
			filePath: n.FilePath,
			label:    n.QualifiedName,
		})
	}

	seen := make(map[string]bool)
	for _, e := range g.SortedEdges() {
		from := keyFor(e.Caller)
		to := keyFor(e.Callee)
		if from == to {
			continue // self-loop, including a collapsed file calling itself
		}
		dedupKey := from + "\x00" + to + "\x00" + string(e.Kind)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true
		wg.addEdge(origEdge{from: from, to: to, kind: e.Kind, callLine: e.CallLine})
	}

	return wg
}

// collapseKeyFunc returns the function mapping a FunctionId to its
// working-graph key under the given collapsed-file set, shared by collapse
// and by anything else that needs to translate a FunctionId onto the same
// working graph (e.g. the caller's preferred DFS start points).
func collapseKeyFunc(collapsed map[string]bool) func(callgraph.FunctionId) string {
	return func(id callgraph.FunctionId) string {
		if collapsed[id.FilePath] {
			return collapsedKey(id.FilePath)
		}
		return nodeKey(id)
	}
}

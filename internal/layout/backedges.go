package layout

// markBackedges runs a DFS over wg preferring nodes in sources as start
// points, then the remaining nodes in insertion order. An edge whose
// destination is gray (currently on the DFS stack) when visited is marked
// a backedge. This generalizes the teacher's onStack/visited cycle-finding
// DFS (internal/engine/graph/detect.go) from "report the cycle" to "mark
// the edge so the rest of layout can treat the remaining edges as a DAG".
func markBackedges(wg *workGraph, sources map[string]bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(wg.order))
	for _, k := range wg.order {
		color[k] = white
	}

	var dfs func(key string)
	dfs = func(key string) {
		color[key] = gray
		for _, idx := range wg.fwd[key] {
			e := &wg.edges[idx]
			switch color[e.to] {
			case gray:
				e.isBackedge = true
			case white:
				dfs(e.to)
			}
		}
		color[key] = black
	}

	var start []string
	for _, k := range wg.order {
		if sources[k] {
			start = append(start, k)
		}
	}
	for _, k := range wg.order {
		if !sources[k] {
			start = append(start, k)
		}
	}

	for _, k := range start {
		if color[k] == white {
			dfs(k)
		}
	}
}

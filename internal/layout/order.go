package layout

import "sort"

// orderWithinLayers computes, for every layer, the sequence of node keys
// in that layer: seeded by file path (or by position in prevOrdering when
// supplied), then refined by four barycenter sweeps alternating down and
// up the layers. The within-layer sort key is the triple (cluster
// barycenter for the file, file path, individual node barycenter), which
// keeps same-file nodes contiguous while still letting crossing
// minimization reorder files relative to each other.
func orderWithinLayers(wg *workGraph, layer map[string]int, fileOrder []string) map[int][]string {
	maxLayer := 0
	byLayer := make(map[int][]string)
	for _, k := range wg.order {
		l := layer[k]
		byLayer[l] = append(byLayer[l], k)
		if l > maxLayer {
			maxLayer = l
		}
	}

	filePos := make(map[string]int, len(fileOrder))
	for i, f := range fileOrder {
		filePos[f] = i
	}

	for l := 0; l <= maxLayer; l++ {
		nodes := byLayer[l]
		sort.Slice(nodes, func(i, j int) bool {
			a, b := wg.nodes[nodes[i]], wg.nodes[nodes[j]]
			pa, haveA := filePos[a.filePath]
			pb, haveB := filePos[b.filePath]
			if len(fileOrder) > 0 && haveA && haveB && pa != pb {
				return pa < pb
			}
			if len(fileOrder) > 0 && haveA != haveB {
				return haveA
			}
			if a.filePath != b.filePath {
				return a.filePath < b.filePath
			}
			return nodes[i] < nodes[j]
		})
		byLayer[l] = nodes
	}

	segFwd, segRev := buildSegmentAdjacency(wg)
	pos := make(map[string]int, len(wg.order))
	reindex := func(l int) {
		for i, k := range byLayer[l] {
			pos[k] = i
		}
	}
	for l := 0; l <= maxLayer; l++ {
		reindex(l)
	}

	sweepDown := func() {
		for l := 1; l <= maxLayer; l++ {
			resortLayer(wg, byLayer[l], pos, segRev)
			reindex(l)
		}
	}
	sweepUp := func() {
		for l := maxLayer - 1; l >= 0; l-- {
			resortLayer(wg, byLayer[l], pos, segFwd)
			reindex(l)
		}
	}

	sweepDown()
	sweepUp()
	sweepDown()
	sweepUp()

	return byLayer
}

// buildSegmentAdjacency returns, per node key, the keys of its neighbors
// one layer away, derived from the consecutive pairs of every edge's
// dummy-expanded chain (backedges excluded: they route outside the grid
// and never influence crossing minimization).
func buildSegmentAdjacency(wg *workGraph) (fwd, rev map[string][]string) {
	fwd = make(map[string][]string)
	rev = make(map[string][]string)
	for _, e := range wg.edges {
		if e.isBackedge || len(e.chain) < 2 {
			continue
		}
		for i := 0; i+1 < len(e.chain); i++ {
			a, b := e.chain[i], e.chain[i+1]
			fwd[a] = append(fwd[a], b)
			rev[b] = append(rev[b], a)
		}
	}
	return fwd, rev
}

func resortLayer(wg *workGraph, nodes []string, pos map[string]int, adj map[string][]string) {
	bary := make(map[string]float64, len(nodes))
	for _, k := range nodes {
		neighbors := adj[k]
		if len(neighbors) == 0 {
			bary[k] = float64(pos[k])
			continue
		}
		sum := 0.0
		for _, n := range neighbors {
			sum += float64(pos[n])
		}
		bary[k] = sum / float64(len(neighbors))
	}

	clusterBary := make(map[string]float64)
	clusterCount := make(map[string]int)
	for _, k := range nodes {
		fp := wg.nodes[k].filePath
		clusterBary[fp] += bary[k]
		clusterCount[fp]++
	}
	for fp := range clusterBary {
		clusterBary[fp] /= float64(clusterCount[fp])
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := wg.nodes[nodes[i]], wg.nodes[nodes[j]]
		if clusterBary[a.filePath] != clusterBary[b.filePath] {
			return clusterBary[a.filePath] < clusterBary[b.filePath]
		}
		if a.filePath != b.filePath {
			return a.filePath < b.filePath
		}
		return bary[nodes[i]] < bary[nodes[j]]
	})
}

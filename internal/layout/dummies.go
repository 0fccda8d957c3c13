package layout

import "fmt"

// insertDummies walks every non-backedge edge whose endpoints span more
// than one layer and splices one dummy node per intermediate layer into
// wg, recording each edge's full node-key chain from source to target.
// Backedges and single-layer edges get a trivial two-element chain. Every
// dummy inherits the file path of its edge's source endpoint so it sorts
// and clusters alongside that file's real nodes.
func insertDummies(wg *workGraph, layer map[string]int) {
	for i := range wg.edges {
		e := &wg.edges[i]
		e.chain = []string{e.from, e.to}

		if e.isBackedge {
			continue
		}
		fromLayer, toLayer := layer[e.from], layer[e.to]
		if toLayer-fromLayer <= 1 {
			continue
		}

		from := wg.nodes[e.from]
		chain := []string{e.from}
		for l := fromLayer + 1; l < toLayer; l++ {
			dKey := fmt.Sprintf("__dummy:%d:%d", i, l)
			wg.addNode(&wNode{
				key:      dKey,
				filePath: from.filePath,
				isDummy:  true,
				layer:    l,
			})
			layer[dKey] = l
			chain = append(chain, dKey)
		}
		chain = append(chain, e.to)
		e.chain = chain
	}
}

package layout

// flowSize is a node's fixed extent along the axis layers progress
// along; every node (dummies aside) occupies the same flow size, so
// layers stack at a uniform gap regardless of label length.
func flowSize(n *wNode) float64 {
	if n.isDummy {
		return dummyFlowSize
	}
	return nodeHeight
}

// crossSize is a node's extent perpendicular to the flow axis, estimated
// from its label length; dummies occupy none.
func crossSize(n *wNode) float64 {
	if n.isDummy {
		return 0
	}
	return float64(len(n.label))*charWidth + labelPadding
}

// assignCoordinates lays out every node's flow and cross position, then
// projects the pair onto (X, Y) according to dir: flow is vertical for
// TopToBottom and horizontal for LeftToRight, cross is the other axis.
// Per layer, the flow extent is the layer's tallest node; layers stack at
// cumulative flow positions separated by layerGap. Per file, the cross
// band width is the widest the file's nodes ever need across any single
// layer; clusters are placed along the cross axis in clusterOrder,
// separated by clusterGap, and the file's nodes are centered within the
// band on every layer they appear in.
func assignCoordinates(wg *workGraph, byLayer map[int][]string, maxLayer int, clusterOrder []string, dir Direction) {
	layerFlowExtent := make(map[int]float64, maxLayer+1)
	for l := 0; l <= maxLayer; l++ {
		extent := 0.0
		for _, k := range byLayer[l] {
			if fs := flowSize(wg.nodes[k]); fs > extent {
				extent = fs
			}
		}
		layerFlowExtent[l] = extent
	}
	layerFlowStart := make(map[int]float64, maxLayer+1)
	cum := 0.0
	for l := 0; l <= maxLayer; l++ {
		layerFlowStart[l] = cum
		cum += layerFlowExtent[l] + layerGap
	}

	perLayerFileExtent := make(map[int]map[string]float64)
	for l := 0; l <= maxLayer; l++ {
		perFile := make(map[string]float64)
		for _, k := range byLayer[l] {
			n := wg.nodes[k]
			if n.isDummy {
				continue
			}
			if perFile[n.filePath] > 0 {
				perFile[n.filePath] += withinLayerGap
			}
			perFile[n.filePath] += crossSize(n)
		}
		perLayerFileExtent[l] = perFile
	}

	bandWidth := make(map[string]float64, len(clusterOrder))
	for _, f := range clusterOrder {
		best := 0.0
		for l := 0; l <= maxLayer; l++ {
			if e := perLayerFileExtent[l][f]; e > best {
				best = e
			}
		}
		if dir == LeftToRight {
			best += clusterHeaderPad
		}
		bandWidth[f] = best
	}

	bandStart := make(map[string]float64, len(clusterOrder))
	cum = 0.0
	for _, f := range clusterOrder {
		bandStart[f] = cum
		cum += bandWidth[f] + clusterGap
	}

	for l := 0; l <= maxLayer; l++ {
		// Group this layer's real nodes by file, preserving the
		// within-layer order step 5 already settled.
		fileNodes := make(map[string][]string)
		var fileSeq []string
		for _, k := range byLayer[l] {
			n := wg.nodes[k]
			if n.isDummy {
				continue
			}
			if _, ok := fileNodes[n.filePath]; !ok {
				fileSeq = append(fileSeq, n.filePath)
			}
			fileNodes[n.filePath] = append(fileNodes[n.filePath], k)
		}

		for _, f := range fileSeq {
			extent := perLayerFileExtent[l][f]
			offset := bandStart[f] + (bandWidth[f]-extent)/2
			if dir == LeftToRight {
				offset = bandStart[f] + clusterHeaderPad + (bandWidth[f]-clusterHeaderPad-extent)/2
			}
			for i, k := range fileNodes[f] {
				n := wg.nodes[k]
				if i > 0 {
					offset += withinLayerGap
				}
				setCoords(n, layerFlowStart[l]+(layerFlowExtent[l]-flowSize(n))/2, offset, flowSize(n), crossSize(n), dir)
				offset += crossSize(n)
			}
		}

		for _, k := range byLayer[l] {
			n := wg.nodes[k]
			if !n.isDummy {
				continue
			}
			setCoords(n, layerFlowStart[l]+(layerFlowExtent[l]-flowSize(n))/2, 0, flowSize(n), crossSize(n), dir)
		}
	}

	placeDummiesOnChains(wg, dir)
}

// placeDummiesOnChains interpolates each dummy's cross coordinate between
// its chain's two real endpoints, proportional to its position along the
// chain, so a long edge through several dummies runs roughly straight
// instead of zig-zagging through an arbitrary cross position.
func placeDummiesOnChains(wg *workGraph, dir Direction) {
	crossOf := func(n *wNode) float64 {
		if dir == LeftToRight {
			return n.y
		}
		return n.x
	}
	setCross := func(n *wNode, c float64) {
		if dir == LeftToRight {
			n.y = c
		} else {
			n.x = c
		}
	}

	for _, e := range wg.edges {
		if len(e.chain) <= 2 {
			continue
		}
		from, to := wg.nodes[e.chain[0]], wg.nodes[e.chain[len(e.chain)-1]]
		fromCross, toCross := crossOf(from), crossOf(to)
		last := len(e.chain) - 1
		for i := 1; i < last; i++ {
			t := float64(i) / float64(last)
			setCross(wg.nodes[e.chain[i]], fromCross+(toCross-fromCross)*t)
		}
	}
}

func setCoords(n *wNode, flowPos, crossPos, flowSz, crossSz float64, dir Direction) {
	x, y, w, h := crossPos, flowPos, crossSz, flowSz
	if dir == LeftToRight {
		x, y, w, h = flowPos, crossPos, flowSz, crossSz
	}
	n.x, n.y, n.width, n.height = x, y, w, h
}

package layout

// routeEdges turns every working-graph edge into a RoutedEdge: a forward
// (non-backedge) edge is reconstructed segment by segment through its
// dummy chain, each segment either a straight line (cross coordinates
// coincide) or a three-segment staircase; a backedge is routed outside
// the drawing entirely. Consecutive identical waypoints are collapsed.
func routeEdges(wg *workGraph, dir Direction, outsideCross float64) []RoutedEdge {
	out := make([]RoutedEdge, 0, len(wg.edges))
	for _, e := range wg.edges {
		var pts []Point
		if e.isBackedge {
			pts = routeBackedge(wg.nodes[e.from], wg.nodes[e.to], dir, outsideCross)
		} else {
			for i := 0; i+1 < len(e.chain); i++ {
				seg := routeSegment(wg.nodes[e.chain[i]], wg.nodes[e.chain[i+1]], dir)
				pts = append(pts, seg...)
			}
		}
		out = append(out, RoutedEdge{
			Caller:     e.from,
			Callee:     e.to,
			Kind:       e.kind,
			CallLine:   e.callLine,
			Waypoints:  dedupConsecutive(pts),
			IsBackedge: e.isBackedge,
		})
	}
	return out
}

func flowExit(n *wNode, dir Direction) Point {
	if dir == LeftToRight {
		return Point{X: n.x + n.width, Y: n.y + n.height/2}
	}
	return Point{X: n.x + n.width/2, Y: n.y + n.height}
}

func flowEntry(n *wNode, dir Direction) Point {
	if dir == LeftToRight {
		return Point{X: n.x, Y: n.y + n.height/2}
	}
	return Point{X: n.x + n.width/2, Y: n.y}
}

func crossOfPoint(p Point, dir Direction) float64 {
	if dir == LeftToRight {
		return p.Y
	}
	return p.X
}

func flowOfPoint(p Point, dir Direction) float64 {
	if dir == LeftToRight {
		return p.X
	}
	return p.Y
}

func pointAt(flow, cross float64, dir Direction) Point {
	if dir == LeftToRight {
		return Point{X: flow, Y: cross}
	}
	return Point{X: cross, Y: flow}
}

// routeSegment connects two adjacent-layer nodes, straight when their
// cross coordinates already coincide, otherwise via a three-segment
// staircase through the midpoint flow coordinate between the two layers.
func routeSegment(from, to *wNode, dir Direction) []Point {
	exit, entry := flowExit(from, dir), flowEntry(to, dir)
	if crossOfPoint(exit, dir) == crossOfPoint(entry, dir) {
		return []Point{exit, entry}
	}
	mid := (flowOfPoint(exit, dir) + flowOfPoint(entry, dir)) / 2
	return []Point{
		exit,
		pointAt(mid, crossOfPoint(exit, dir), dir),
		pointAt(mid, crossOfPoint(entry, dir), dir),
		entry,
	}
}

// routeBackedge routes from the source's flow-exit side out past every
// node along the cross axis, then into the target's flow-exit side.
func routeBackedge(from, to *wNode, dir Direction, outsideCross float64) []Point {
	exit := flowExit(from, dir)
	targetExit := flowExit(to, dir)
	return []Point{
		exit,
		pointAt(flowOfPoint(exit, dir), outsideCross, dir),
		pointAt(flowOfPoint(targetExit, dir), outsideCross, dir),
		targetExit,
	}
}

func dedupConsecutive(pts []Point) []Point {
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// maxCrossExtent returns the furthest cross-axis coordinate any node
// reaches, plus a margin, for routing backedges outside the drawing.
func maxCrossExtent(wg *workGraph, dir Direction) float64 {
	max := 0.0
	for _, k := range wg.order {
		n := wg.nodes[k]
		var edge float64
		if dir == LeftToRight {
			edge = n.y + n.height
		} else {
			edge = n.x + n.width
		}
		if edge > max {
			max = edge
		}
	}
	return max + clusterGap
}

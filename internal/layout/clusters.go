package layout

// deriveClusterOrder scans layers in increasing order, recording the
// first time each file appears as that file's position in the new
// ordering. When prevOrdering is non-empty, files it lists are kept in
// their previous relative order (dropping any no longer present) and a
// newly appeared file is inserted as close as possible to its natural
// scan-order position relative to the retained neighbors around it.
func deriveClusterOrder(wg *workGraph, byLayer map[int][]string, maxLayer int, prevOrdering []string) []string {
	var scanOrder []string
	seen := make(map[string]bool)
	for l := 0; l <= maxLayer; l++ {
		for _, k := range byLayer[l] {
			n := wg.nodes[k]
			if n.isDummy || seen[n.filePath] {
				continue
			}
			seen[n.filePath] = true
			scanOrder = append(scanOrder, n.filePath)
		}
	}

	if len(prevOrdering) == 0 {
		return scanOrder
	}

	present := make(map[string]bool, len(scanOrder))
	for _, f := range scanOrder {
		present[f] = true
	}
	scanPos := make(map[string]int, len(scanOrder))
	for i, f := range scanOrder {
		scanPos[f] = i
	}

	var retained []string
	retainedSet := make(map[string]bool)
	for _, f := range prevOrdering {
		if present[f] {
			retained = append(retained, f)
			retainedSet[f] = true
		}
	}

	result := make([]string, 0, len(scanOrder))
	inserted := make(map[string]bool)

	// Walk scanOrder and, for each file not retained, insert it
	// immediately before the first not-yet-placed retained file whose
	// scan position is at or after its own (appending if none do),
	// pulling any skipped-over retained files along in their retained
	// relative order as we go.
	retainedIdx := 0
	for _, f := range scanOrder {
		if retainedSet[f] {
			continue
		}
		for retainedIdx < len(retained) {
			r := retained[retainedIdx]
			if scanPos[r] >= scanPos[f] {
				break
			}
			result = append(result, r)
			inserted[r] = true
			retainedIdx++
		}
		result = append(result, f)
		inserted[f] = true
	}
	for retainedIdx < len(retained) {
		r := retained[retainedIdx]
		if !inserted[r] {
			result = append(result, r)
			inserted[r] = true
		}
		retainedIdx++
	}

	return result
}

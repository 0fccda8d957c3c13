package layout

import "github.com/gobwas/glob"

// compiledOwnerRule pairs one OwnerRule with its compiled glob, the same
// wildcard-or-literal split the teacher's architecture.go uses for layer
// path matching: a pattern with no glob metacharacters is matched as a
// literal path instead of compiled, since glob.Compile("src/a.ts", '/')
// would otherwise also work but costs more for the common exact-path case.
type compiledOwnerRule struct {
	literal string
	g       glob.Glob
	owners  []string
}

func compileOwnerRules(rules []OwnerRule) []compiledOwnerRule {
	out := make([]compiledOwnerRule, 0, len(rules))
	for _, r := range rules {
		if hasGlobMeta(r.Pattern) {
			g, err := glob.Compile(r.Pattern, '/')
			if err != nil {
				continue
			}
			out = append(out, compiledOwnerRule{g: g, owners: r.Owners})
			continue
		}
		out = append(out, compiledOwnerRule{literal: r.Pattern, owners: r.Owners})
	}
	return out
}

func hasGlobMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', ']', '{', '}':
			return true
		}
	}
	return false
}

// ownersFor returns the owners of the last rule matching path, per
// CODEOWNERS' last-match-wins semantics.
func ownersFor(rules []compiledOwnerRule, path string) []string {
	var owners []string
	for _, r := range rules {
		if r.g != nil {
			if r.g.Match(path) {
				owners = r.owners
			}
			continue
		}
		if r.literal == path {
			owners = r.owners
		}
	}
	return owners
}

// clusterRects computes, for every non-collapsed, non-dummy file, the
// axis-aligned bounding box of its laid-out nodes, padded on every side
// (the top, where the filename label and any owner chips are drawn, gets
// the larger header pad). A collapsed file has no box: its synthetic
// node is drawn like any other node, not a cluster.
func clusterRects(wg *workGraph, ownerRules []OwnerRule) []ClusterBox {
	rules := compileOwnerRules(ownerRules)
	type bounds struct{ minX, minY, maxX, maxY float64 }
	byFile := make(map[string]*bounds)
	var order []string

	for _, k := range wg.order {
		n := wg.nodes[k]
		if n.isDummy || n.isCollapsed {
			continue
		}
		b, ok := byFile[n.filePath]
		if !ok {
			b = &bounds{minX: n.x, minY: n.y, maxX: n.x + n.width, maxY: n.y + n.height}
			byFile[n.filePath] = b
			order = append(order, n.filePath)
			continue
		}
		if n.x < b.minX {
			b.minX = n.x
		}
		if n.y < b.minY {
			b.minY = n.y
		}
		if n.x+n.width > b.maxX {
			b.maxX = n.x + n.width
		}
		if n.y+n.height > b.maxY {
			b.maxY = n.y + n.height
		}
	}

	out := make([]ClusterBox, 0, len(order))
	for _, f := range order {
		b := byFile[f]
		out = append(out, ClusterBox{
			FilePath: f,
			X:        b.minX - clusterPadding,
			Y:        b.minY - clusterHeaderPad,
			Width:    (b.maxX + clusterPadding) - (b.minX - clusterPadding),
			Height:   (b.maxY + clusterPadding) - (b.minY - clusterHeaderPad),
			Owners:   ownersFor(rules, f),
		})
	}
	return out
}

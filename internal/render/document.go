package render

import (
	"path/filepath"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
)

func nodeID(id callgraph.FunctionId) string {
	return id.FilePath + "\x00" + id.QualifiedName
}

func isExternalPath(path string) bool {
	return strings.HasPrefix(path, callgraph.ExternalFilePrefix)
}

// repoRelative rewrites an absolute file path to repository-relative for
// rendering; an external descriptor's synthetic path is left untouched
// since it names no real file under repoRoot.
func repoRelative(repoRoot, path string) string {
	if isExternalPath(path) || repoRoot == "" {
		return path
	}
	rel, err := filepath.Rel(repoRoot, path)
	if err != nil {
		return path
	}
	return rel
}

// BuildDocument converts g into the interchange Document, marking every
// node present in sources/targets, rewriting file paths to repo-relative,
// and consulting enrich (if non-nil) for the optional free-text fields. A
// nil codeowners map is carried through as no codeowners entry.
func BuildDocument(g *callgraph.CallGraph, repoRoot string, sources, targets []callgraph.FunctionId, enrich Enricher, codeowners map[string][]string, editor string) Document {
	sourceSet := make(map[callgraph.FunctionId]bool, len(sources))
	for _, id := range sources {
		sourceSet[id] = true
	}
	targetSet := make(map[callgraph.FunctionId]bool, len(targets))
	for _, id := range targets {
		targetSet[id] = true
	}

	nodes := make([]Node, 0, g.NodeCount())
	for _, n := range g.SortedNodes() {
		out := Node{
			Id:             nodeID(n.Id),
			FilePath:       repoRelative(repoRoot, n.FilePath),
			QualifiedName:  n.QualifiedName,
			Line:           n.FirstLine,
			IsInstrumented: n.IsInstrumented,
			IsSource:       sourceSet[n.Id],
			IsTarget:       targetSet[n.Id],
			IsExternal:     n.IsExternal,
		}
		if enrich != nil {
			if desc, sig, snippet, ok := enrich.Describe(n.Id); ok {
				out.Description = desc
				out.Signature = sig
				out.SourceSnippet = snippet
			}
		}
		nodes = append(nodes, out)
	}

	edges := make([]Edge, 0, g.EdgeCount())
	for _, e := range g.SortedEdges() {
		edges = append(edges, Edge{
			From:     nodeID(e.Caller),
			To:       nodeID(e.Callee),
			Kind:     e.Kind,
			CallLine: e.CallLine,
		})
	}

	var owners map[string][]string
	if len(codeowners) > 0 {
		owners = make(map[string][]string, len(codeowners))
		for path, o := range codeowners {
			owners[repoRelative(repoRoot, path)] = o
		}
	}

	return Document{
		Nodes:      nodes,
		Edges:      edges,
		Codeowners: owners,
		RepoRoot:   repoRoot,
		Editor:     editor,
	}
}

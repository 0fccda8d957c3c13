package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
)

func fn(path, name string) callgraph.FunctionId {
	return callgraph.FunctionId{FilePath: path, QualifiedName: name}
}

func buildTestGraph() *callgraph.CallGraph {
	g := callgraph.NewCallGraph()
	a, b := fn("/repo/a.ts", "main"), fn("/repo/b.ts", "helper")
	g.AddNode(callgraph.FunctionNode{Id: a, FilePath: a.FilePath, QualifiedName: a.QualifiedName, FirstLine: 3})
	g.AddNode(callgraph.FunctionNode{Id: b, FilePath: b.FilePath, QualifiedName: b.QualifiedName, FirstLine: 10})
	g.AddEdge(callgraph.CallEdge{Caller: a, Callee: b, Kind: callgraph.EdgeDiDefault, CallLine: 5})
	return g
}

func TestBuildDocument_RewritesFilePathsRepoRelative(t *testing.T) {
	g := buildTestGraph()
	doc := BuildDocument(g, "/repo", nil, nil, nil, nil, "")

	for _, n := range doc.Nodes {
		if strings.HasPrefix(n.FilePath, "/repo") {
			t.Errorf("expected repo-relative path, got %q", n.FilePath)
		}
	}
}

func TestBuildDocument_MarksSourcesAndTargets(t *testing.T) {
	g := buildTestGraph()
	a, b := fn("/repo/a.ts", "main"), fn("/repo/b.ts", "helper")
	doc := BuildDocument(g, "/repo", []callgraph.FunctionId{a}, []callgraph.FunctionId{b}, nil, nil, "")

	byQN := make(map[string]Node)
	for _, n := range doc.Nodes {
		byQN[n.QualifiedName] = n
	}
	if !byQN["main"].IsSource {
		t.Error("expected main marked as source")
	}
	if !byQN["helper"].IsTarget {
		t.Error("expected helper marked as target")
	}
	if byQN["main"].IsTarget || byQN["helper"].IsSource {
		t.Error("did not expect cross-marking")
	}
}

func TestBuildDocument_LeavesExternalPathUntouched(t *testing.T) {
	g := callgraph.NewCallGraph()
	ext := fn(callgraph.ExternalFilePrefix+"lodash", "debounce")
	g.AddNode(callgraph.FunctionNode{Id: ext, FilePath: ext.FilePath, QualifiedName: ext.QualifiedName, IsExternal: true})

	doc := BuildDocument(g, "/repo", nil, nil, nil, nil, "")
	if len(doc.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].FilePath != ext.FilePath {
		t.Errorf("expected external path left as-is, got %q", doc.Nodes[0].FilePath)
	}
	if !doc.Nodes[0].IsExternal {
		t.Error("expected IsExternal true")
	}
}

type fakeEnricher struct{}

func (fakeEnricher) Describe(id callgraph.FunctionId) (string, string, string, bool) {
	if id.QualifiedName == "main" {
		return "entry point", "function main(): void", "function main() { helper() }", true
	}
	return "", "", "", false
}

func TestBuildDocument_EnricherFillsOptionalFields(t *testing.T) {
	g := buildTestGraph()
	doc := BuildDocument(g, "/repo", nil, nil, fakeEnricher{}, nil, "")

	var main Node
	for _, n := range doc.Nodes {
		if n.QualifiedName == "main" {
			main = n
		}
	}
	if main.Description != "entry point" || main.Signature != "function main(): void" {
		t.Errorf("expected enriched fields on main, got %+v", main)
	}
}

func TestMarshalJSON_ProducesSchemaValidDocument(t *testing.T) {
	g := buildTestGraph()
	doc := BuildDocument(g, "/repo", nil, nil, nil, map[string][]string{"/repo/a.ts": {"@platform"}}, "vscode")

	data, err := MarshalJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if _, ok := decoded["nodes"]; !ok {
		t.Error("expected nodes key in output")
	}
}

func TestMarshalJSON_RejectsUnknownEdgeKind(t *testing.T) {
	doc := Document{
		Nodes: []Node{{Id: "a", FilePath: "a.ts", QualifiedName: "a", Line: 1}},
		Edges: []Edge{{From: "a", To: "b", Kind: callgraph.EdgeKind("not-a-real-kind"), CallLine: 1}},
	}
	if _, err := MarshalJSON(doc); err == nil {
		t.Fatal("expected schema validation to reject an unrecognized edge kind")
	}
}

func TestWriteDOT_ClustersNodesByFileAndStylesByKind(t *testing.T) {
	g := buildTestGraph()
	doc := BuildDocument(g, "/repo", nil, nil, nil, nil, "")
	out := WriteDOT(doc)

	if !strings.HasPrefix(out, "digraph callpath {") {
		t.Fatalf("expected digraph callpath header, got %q", out[:40])
	}
	if !strings.Contains(out, "a.ts") || !strings.Contains(out, "b.ts") {
		t.Error("expected one cluster per file")
	}
	if !strings.Contains(out, `label="DI"`) {
		t.Error("expected the di-default edge labeled DI")
	}
}

func TestWriteDOT_StylesSourceAndTargetNodesDifferently(t *testing.T) {
	g := buildTestGraph()
	a, b := fn("/repo/a.ts", "main"), fn("/repo/b.ts", "helper")
	doc := BuildDocument(g, "/repo", []callgraph.FunctionId{a}, []callgraph.FunctionId{b}, nil, nil, "")
	out := WriteDOT(doc)

	if !strings.Contains(out, "lightblue") {
		t.Error("expected the source node styled with its fill color")
	}
	if !strings.Contains(out, "lightgreen") {
		t.Error("expected the target node styled with its fill color")
	}
}

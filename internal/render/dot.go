package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
)

// WriteDOT renders doc as a Graphviz digraph named callpath: top-to-bottom,
// one subgraph cluster per source file labeled by its repository-relative
// path, and one node per function labeled "qualifiedName\n:line". Node
// fill follows role (source, target, instrumented, default); edge styling
// follows EdgeKind.
func WriteDOT(doc Document) string {
	var buf strings.Builder

	buf.WriteString("digraph callpath {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n\n")

	byFile := make(map[string][]Node)
	var files []string
	for _, n := range doc.Nodes {
		if _, ok := byFile[n.FilePath]; !ok {
			files = append(files, n.FilePath)
		}
		byFile[n.FilePath] = append(byFile[n.FilePath], n)
	}
	sort.Strings(files)

	for ci, file := range files {
		buf.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", ci))
		buf.WriteString(fmt.Sprintf("    label=%q;\n", file))
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    color=\"whitesmoke\";\n")
		for _, n := range byFile[file] {
			buf.WriteString("    " + nodeStatement(n) + "\n")
		}
		buf.WriteString("  }\n\n")
	}

	for _, e := range doc.Edges {
		buf.WriteString("  " + edgeStatement(e) + "\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeStatement(n Node) string {
	label := fmt.Sprintf("%s\\n:%d", n.QualifiedName, n.Line)
	fill, color := nodeStyle(n)
	return fmt.Sprintf("%q [label=%q, fillcolor=%q, color=%q];", n.Id, label, fill, color)
}

func nodeStyle(n Node) (fill, color string) {
	switch {
	case n.IsSource:
		return "lightblue", "steelblue"
	case n.IsTarget:
		return "lightgreen", "darkgreen"
	case n.IsInstrumented:
		return "lightyellow", "goldenrod"
	default:
		return "white", "darkslategrey"
	}
}

func edgeStatement(e Edge) string {
	attrs := edgeAttrs(e.Kind)
	return fmt.Sprintf("%q -> %q [%s];", e.From, e.To, attrs)
}

func edgeAttrs(kind callgraph.EdgeKind) string {
	switch kind {
	case callgraph.EdgeStaticMethod:
		return `color="darkorange"`
	case callgraph.EdgeDiDefault:
		return `style=dashed, label="DI"`
	case callgraph.EdgeInstrumentWrapper:
		return `style=dotted`
	case callgraph.EdgeReExport:
		return `style=dotted, label="re-export"`
	case callgraph.EdgeExternal:
		return `color="grey", style=dashed`
	case callgraph.EdgeInstanceMethod:
		return `color="darkorange"`
	default:
		return `color="black"`
	}
}

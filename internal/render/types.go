// Package render turns a callgraph.CallGraph into the two output shapes
// downstream consumers read: the JSON interchange document for the
// interactive visualization, and a Graphviz digraph for static rendering.
// Both writers consume the same Document, built once from a graph plus the
// source/target sets and optional CODEOWNERS table that produced it.
package render

import "github.com/drivasperez/ts-callpath/internal/callgraph"

// Node is one function-like entity in the interchange document.
type Node struct {
	Id             string `json:"id"`
	FilePath       string `json:"filePath"`
	QualifiedName  string `json:"qualifiedName"`
	Line           int    `json:"line"`
	IsInstrumented bool   `json:"isInstrumented"`
	IsSource       bool   `json:"isSource"`
	IsTarget       bool   `json:"isTarget"`

	Description   string `json:"description,omitempty"`
	Signature     string `json:"signature,omitempty"`
	SourceSnippet string `json:"sourceSnippet,omitempty"`
	IsExternal    bool   `json:"isExternal,omitempty"`
}

// Edge is one call edge in the interchange document.
type Edge struct {
	From     string             `json:"from"`
	To       string             `json:"to"`
	Kind     callgraph.EdgeKind `json:"kind"`
	CallLine int                `json:"callLine"`
}

// Document is the full interchange shape handed to downstream renderers.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	Codeowners map[string][]string `json:"codeowners,omitempty"`
	RepoRoot   string               `json:"repoRoot,omitempty"`
	Editor     string               `json:"editor,omitempty"`
}

// Enricher supplies the optional free-text fields a FunctionId's node does
// not carry on the graph itself (doc comment, rendered signature, and a
// source snippet), looked up on demand while building a Document.
type Enricher interface {
	Describe(id callgraph.FunctionId) (description, signature, sourceSnippet string, ok bool)
}

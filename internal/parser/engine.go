package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// text, line, lastLine, childOfKind, and hasChildOfKind are the small
// tree-sitter accessors every extraction file builds on; walkScope
// (callsites.go) and extractTopLevelStatement (extract.go) each dispatch
// on node.Kind() directly rather than through a shared handler table,
// since the two walks need different traversal rules (scope exclusion vs.
// one-level top-level iteration).

func text(source []byte, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func line(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

func lastLine(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.EndPosition().Row) + 1
}

// childOfKind returns the first direct child of node whose kind equals
// kind, or nil.
func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// hasChildOfKind reports whether node has a direct child of the given
// kind — used to detect unnamed tokens such as the "*" of a wildcard
// re-export or the "default" keyword of an export statement.
func hasChildOfKind(node *sitter.Node, kind string) bool {
	return childOfKind(node, kind) != nil
}

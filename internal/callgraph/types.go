// Package callgraph defines the typed directed graph of functions and call
// edges, plus the bounded forward-traversal Builder and the
// source-to-target Slicer built on top of it.
package callgraph

// FunctionId is the total, stable identity of a function-like entity: the
// pair (absolute file path, qualified name). It is never derived from a
// source-language AST node reference, only from these two strings, so it
// remains comparable/hashable across independently parsed files.
type FunctionId struct {
	FilePath      string
	QualifiedName string
}

// ModuleScope is the qualified name of a file's synthetic top-level scope.
const ModuleScope = "<module>"

// ExternalFilePrefix marks a FunctionId's FilePath as a synthetic external
// descriptor standing in for a callee outside the analyzed project.
const ExternalFilePrefix = "<external>::"

// EdgeKind is the closed set of ways the symbol resolver reached a callee.
type EdgeKind string

const (
	EdgeDirect            EdgeKind = "direct"
	EdgeStaticMethod      EdgeKind = "static-method"
	EdgeDiDefault         EdgeKind = "di-default"
	EdgeInstrumentWrapper EdgeKind = "instrument-wrapper"
	EdgeInstanceMethod    EdgeKind = "instance-method"
	EdgeReExport          EdgeKind = "re-export"
	EdgeExternal          EdgeKind = "external"
)

// ValidEdgeKind reports whether k is one of the closed set of edge kinds.
// An unrecognized kind reaching graph construction is an internal
// invariant violation.
func ValidEdgeKind(k EdgeKind) bool {
	switch k {
	case EdgeDirect, EdgeStaticMethod, EdgeDiDefault, EdgeInstrumentWrapper,
		EdgeInstanceMethod, EdgeReExport, EdgeExternal:
		return true
	default:
		return false
	}
}

// FunctionNode is one vertex of a CallGraph.
type FunctionNode struct {
	Id             FunctionId
	FilePath       string
	QualifiedName  string
	FirstLine      int
	LastLine       int // zero when unknown
	IsInstrumented bool
	IsExternal     bool
}

// CallEdge is one directed, deduplicated edge of a CallGraph.
type CallEdge struct {
	Caller   FunctionId
	Callee   FunctionId
	Kind     EdgeKind
	CallLine int
}

func edgeKey(caller, callee FunctionId) string {
	return caller.FilePath + "\x00" + caller.QualifiedName + "\x00\x01\x00" + callee.FilePath + "\x00" + callee.QualifiedName
}

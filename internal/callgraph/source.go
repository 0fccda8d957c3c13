package callgraph

import "context"

// FunctionInfo is the minimal view of a defined function-like entity the
// Builder needs to create a FunctionNode, independent of how it was parsed.
type FunctionInfo struct {
	Id             FunctionId
	FirstLine      int
	LastLine       int
	IsInstrumented bool
}

// CallInfo is one already-resolved outgoing call from a function: the
// symbol resolver has already turned a syntactic call site into a callee
// FunctionId and an EdgeKind, or into an external leaf.
type CallInfo struct {
	Callee     FunctionId
	Kind       EdgeKind
	CallLine   int
	IsExternal bool
}

// SourceIndex is everything the Builder needs from the parser and symbol
// resolver. internal/resolve provides the concrete implementation,
// composing a parser for one project with a configured module/symbol
// resolver; the Builder only depends on this interface, never on the
// parser or resolver packages directly.
type SourceIndex interface {
	// FunctionsInFile returns every function-like entity defined at the
	// top level or in a nested scope of the file at path. A file that
	// cannot be read or parsed returns a non-nil error; the Builder turns
	// that into a recoverable file-fault diagnostic and continues.
	FunctionsInFile(ctx context.Context, path string) ([]FunctionInfo, error)

	// CallsFrom returns every resolved call made by the function
	// identified by id, in source order.
	CallsFrom(ctx context.Context, id FunctionId) ([]CallInfo, error)

	// NormalizeStart resolves a user-provided traversal source through the
	// file's object-binding map, so an `Obj.prop` selector the user typed
	// resolves to the FunctionId it actually references. An id that is
	// already a direct function reference is returned unchanged.
	NormalizeStart(ctx context.Context, id FunctionId) (FunctionId, error)
}

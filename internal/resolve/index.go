package resolve

import (
	"context"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/config"
	"github.com/drivasperez/ts-callpath/internal/errors"
	"github.com/drivasperez/ts-callpath/internal/parser"
)

// Index composes a parser, a build-scoped parsed-file cache, a
// ModuleResolver, and a SymbolResolver into the concrete
// callgraph.SourceIndex the Builder traverses. It is the only type in this
// package callers outside it need to construct directly.
type Index struct {
	store   *fileStore
	symbols *SymbolResolver
	modules *ModuleResolver
}

// NewIndex returns an Index resolving modules per cfg and reading/parsing
// files through the real filesystem.
func NewIndex(cfg config.ResolverConfig, p *parser.Parser) *Index {
	return NewIndexWithFS(cfg, p, NewOSFileSystem())
}

// NewIndexWithFS returns an Index resolving and reading through fs,
// letting tests substitute an in-memory filesystem.
func NewIndexWithFS(cfg config.ResolverConfig, p *parser.Parser, fs FileSystem) *Index {
	return NewIndexWithLimiter(cfg, p, fs, nil)
}

// NewIndexWithLimiter is NewIndexWithFS plus an optional ReadLimiter
// bounding the rate of file reads; a nil limiter never blocks.
func NewIndexWithLimiter(cfg config.ResolverConfig, p *parser.Parser, fs FileSystem, limiter *ReadLimiter) *Index {
	store := newFileStore(fs, p, DefaultCacheCapacity)
	store.limiter = limiter
	modules := NewModuleResolverWithFS(cfg, fs)
	return &Index{
		store:   store,
		modules: modules,
		symbols: NewSymbolResolver(modules, store),
	}
}

// FunctionsInFile implements callgraph.SourceIndex.
func (idx *Index) FunctionsInFile(ctx context.Context, path string) ([]callgraph.FunctionInfo, error) {
	if isExternalPath(path) {
		return nil, nil
	}
	file, err := idx.store.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]callgraph.FunctionInfo, 0, len(file.Functions))
	for _, fn := range file.Functions {
		out = append(out, callgraph.FunctionInfo{
			Id:             callgraph.FunctionId{FilePath: path, QualifiedName: fn.QualifiedName},
			FirstLine:      fn.FirstLine,
			LastLine:       fn.LastLine,
			IsInstrumented: fn.IsInstrumented,
		})
	}
	return out, nil
}

// CallsFrom implements callgraph.SourceIndex.
func (idx *Index) CallsFrom(ctx context.Context, id callgraph.FunctionId) ([]callgraph.CallInfo, error) {
	if isExternalPath(id.FilePath) {
		return nil, nil
	}
	file, err := idx.store.Load(ctx, id.FilePath)
	if err != nil {
		return nil, err
	}
	fn, ok := file.FunctionByName(id.QualifiedName)
	if !ok {
		return nil, errors.New(errors.CodeResolution, "no such function in file").
			WithContext(errors.CtxPath, id.FilePath).
			WithContext(errors.CtxQualifiedName, id.QualifiedName)
	}

	var out []callgraph.CallInfo
	for _, site := range fn.CallSites {
		callee, kind, ok := idx.symbols.Resolve(ctx, file, fn, site)
		if !ok {
			continue
		}
		out = append(out, callgraph.CallInfo{
			Callee:     callee,
			Kind:       kind,
			CallLine:   site.Line,
			IsExternal: kind == callgraph.EdgeExternal || isExternalPath(callee.FilePath),
		})
	}
	return out, nil
}

// NormalizeStart implements callgraph.SourceIndex.
func (idx *Index) NormalizeStart(ctx context.Context, id callgraph.FunctionId) (callgraph.FunctionId, error) {
	if isExternalPath(id.FilePath) {
		return id, nil
	}
	file, err := idx.store.Load(ctx, id.FilePath)
	if err != nil {
		return callgraph.FunctionId{}, err
	}
	if _, ok := file.FunctionByName(id.QualifiedName); ok {
		return id, nil
	}
	if target, ok := file.ObjectPropertyBindings[id.QualifiedName]; ok {
		if _, ok := file.FunctionByName(target); ok {
			return callgraph.FunctionId{FilePath: id.FilePath, QualifiedName: target}, nil
		}
	}
	return callgraph.FunctionId{}, errors.New(errors.CodeResolution, "traversal source does not resolve to a function").
		WithContext(errors.CtxPath, id.FilePath).
		WithContext(errors.CtxQualifiedName, id.QualifiedName)
}

func isExternalPath(path string) bool {
	return strings.HasPrefix(path, callgraph.ExternalFilePrefix)
}

package resolve

import (
	"context"
	"log/slog"
	"testing"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/config"
	"github.com/drivasperez/ts-callpath/internal/parser"
)

// memFS is an in-memory FileSystem backed by a fixed set of source files,
// letting Index tests exercise the real parser and both resolvers without
// touching a real filesystem.
type memFS struct {
	files map[string]string
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files}
}

func (f *memFS) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, &pathError{path}
	}
	return []byte(content), nil
}

func (f *memFS) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *memFS) EvalSymlinks(path string) (string, error) { return path, nil }

type pathError struct{ path string }

func (e *pathError) Error() string { return "no such file: " + e.path }

func TestIndex_CallsFromResolvesCrossFileImport(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/repo/a.ts": `
import { helper } from './b';
export function main() {
  helper();
}
`,
		"/repo/b.ts": `
export function helper() {}
`,
	})

	idx := NewIndexWithFS(config.ResolverConfig{BaseDir: "/repo"}, parser.NewParser(slog.Default()), fs)

	calls, err := idx.CallsFrom(context.Background(), callgraph.FunctionId{FilePath: "/repo/a.ts", QualifiedName: "main"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Callee != (callgraph.FunctionId{FilePath: "/repo/b.ts", QualifiedName: "helper"}) {
		t.Errorf("got callee %v", calls[0].Callee)
	}
	if calls[0].Kind != callgraph.EdgeDirect {
		t.Errorf("got kind %v", calls[0].Kind)
	}
}

func TestIndex_FunctionsInFileListsEveryScope(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/repo/a.ts": `
function outer() {
  function inner() {}
}
`,
	})
	idx := NewIndexWithFS(config.ResolverConfig{BaseDir: "/repo"}, parser.NewParser(slog.Default()), fs)

	infos, err := idx.FunctionsInFile(context.Background(), "/repo/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := make(map[string]bool)
	for _, info := range infos {
		names[info.Id.QualifiedName] = true
	}
	if !names["outer"] || !names["outer.inner"] {
		t.Fatalf("expected outer and outer.inner, got %v", names)
	}
}

func TestIndex_NormalizeStartFollowsObjectLiteralFacade(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/repo/a.ts": `
function doWork() {}
const Facade = {
  run: doWork,
};
`,
	})
	idx := NewIndexWithFS(config.ResolverConfig{BaseDir: "/repo"}, parser.NewParser(slog.Default()), fs)

	id, err := idx.NormalizeStart(context.Background(), callgraph.FunctionId{FilePath: "/repo/a.ts", QualifiedName: "Facade.run"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.QualifiedName != "doWork" {
		t.Fatalf("got %v", id)
	}
}

func TestIndex_CallsFromExternalPathIsANoOp(t *testing.T) {
	idx := NewIndexWithFS(config.ResolverConfig{BaseDir: "/repo"}, parser.NewParser(slog.Default()), newMemFS(nil))

	calls, err := idx.CallsFrom(context.Background(), callgraph.FunctionId{FilePath: callgraph.ExternalFilePrefix + "lodash", QualifiedName: "map"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != nil {
		t.Fatalf("expected no calls from an external node, got %v", calls)
	}
}

package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/parser"
)

// fakeModules is a Modules implementation backed by a fixed
// (fromFile, specifier) -> Resolution table, so symbol-resolver tests never
// touch a real module resolver or filesystem.
type fakeModules struct {
	table           map[[2]string]Resolution
	includeExternal bool
}

func newFakeModules() *fakeModules {
	return &fakeModules{table: make(map[[2]string]Resolution)}
}

func (m *fakeModules) link(fromFile, specifier, path string) {
	m.table[[2]string{fromFile, specifier}] = Resolution{Path: path}
}

func (m *fakeModules) Resolve(fromFile, specifier string) (Resolution, bool) {
	res, ok := m.table[[2]string{fromFile, specifier}]
	return res, ok
}

func (m *fakeModules) IncludeExternal() bool { return m.includeExternal }

// fakeLoader is a FileLoader backed by a fixed set of already-built
// ParsedFiles, keyed by path.
type fakeLoader struct {
	files map[string]*parser.ParsedFile
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{files: make(map[string]*parser.ParsedFile)}
}

func (l *fakeLoader) put(file *parser.ParsedFile) {
	l.files[file.FilePath] = file
}

func (l *fakeLoader) Load(ctx context.Context, path string) (*parser.ParsedFile, error) {
	file, ok := l.files[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return file, nil
}

func newFile(path string) *parser.ParsedFile {
	return parser.NewParsedFile(path)
}

func withFunctions(file *parser.ParsedFile, fns ...parser.ParsedFunction) *parser.ParsedFile {
	file.Functions = append(file.Functions, fns...)
	return file
}

func TestSymbolResolver_NamedLocalFunction(t *testing.T) {
	file := withFunctions(newFile("a.ts"), parser.ParsedFunction{QualifiedName: "foo"})
	r := NewSymbolResolver(newFakeModules(), newFakeLoader())

	id, kind, ok := r.ResolveNamed(context.Background(), file, &parser.ParsedFunction{QualifiedName: "caller"}, "foo")
	if !ok || kind != callgraph.EdgeDirect || id != (callgraph.FunctionId{FilePath: "a.ts", QualifiedName: "foo"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_NamedImportFollowsExport(t *testing.T) {
	a := newFile("a.ts")
	a.Imports = []parser.ImportInfo{{LocalName: "bar", ImportedName: "bar", ModuleSpec: "./b"}}
	b := withFunctions(newFile("b.ts"), parser.ParsedFunction{QualifiedName: "bar"})
	b.ExportedNames["bar"] = "bar"

	mods := newFakeModules()
	mods.link("a.ts", "./b", "b.ts")
	loader := newFakeLoader()
	loader.put(b)

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveNamed(context.Background(), a, &parser.ParsedFunction{QualifiedName: "caller"}, "bar")
	if !ok || kind != callgraph.EdgeDirect || id != (callgraph.FunctionId{FilePath: "b.ts", QualifiedName: "bar"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_NamedDiDefaultRelabelsAsDiDefault(t *testing.T) {
	file := withFunctions(newFile("a.ts"), parser.ParsedFunction{QualifiedName: "helperImpl"})
	caller := &parser.ParsedFunction{
		QualifiedName: "caller",
		DiDefaults:    []parser.DiDefaultMapping{{ParamName: "deps", PropKey: "helper", LocalRef: "helperImpl"}},
	}

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveNamed(context.Background(), file, caller, "helper")
	if !ok || kind != callgraph.EdgeDiDefault || id.QualifiedName != "helperImpl" {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_MemberDiDefaultObjectRefFollowsImportedClassMember(t *testing.T) {
	caller := newFile("caller.ts")
	caller.Imports = []parser.ImportInfo{{LocalName: "mod", ImportedName: "Mod", ModuleSpec: "./mod"}}
	callerFn := &parser.ParsedFunction{
		QualifiedName: "run",
		DiDefaults:    []parser.DiDefaultMapping{{ParamName: "p", PropKey: "k", ObjectRef: "mod", MethodRef: "doit"}},
	}

	modFile := withFunctions(newFile("mod.ts"), parser.ParsedFunction{QualifiedName: "Mod.doit"})
	modFile.ExportedNames["Mod"] = "Mod"

	mods := newFakeModules()
	mods.link("caller.ts", "./mod", "mod.ts")
	loader := newFakeLoader()
	loader.put(modFile)

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveMember(context.Background(), caller, callerFn, "p", "k")
	if !ok || kind != callgraph.EdgeDiDefault || id != (callgraph.FunctionId{FilePath: "mod.ts", QualifiedName: "Mod.doit"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ImportedNamespaceMember(t *testing.T) {
	caller := newFile("caller.ts")
	caller.Imports = []parser.ImportInfo{{LocalName: "NS", ModuleSpec: "./ns", IsNamespace: true}}

	ns := withFunctions(newFile("ns.ts"), parser.ParsedFunction{QualifiedName: "util"})
	ns.ExportedNames["util"] = "util"

	mods := newFakeModules()
	mods.link("caller.ts", "./ns", "ns.ts")
	loader := newFakeLoader()
	loader.put(ns)

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveMember(context.Background(), caller, &parser.ParsedFunction{}, "NS", "util")
	if !ok || kind != callgraph.EdgeDirect || id != (callgraph.FunctionId{FilePath: "ns.ts", QualifiedName: "util"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ImportedIdentifierAsClassMember(t *testing.T) {
	caller := newFile("caller.ts")
	caller.Imports = []parser.ImportInfo{{LocalName: "Svc", ImportedName: "Service", ModuleSpec: "./svc"}}

	svc := withFunctions(newFile("svc.ts"), parser.ParsedFunction{QualifiedName: "Service.run"})
	svc.ExportedNames["Service"] = "Service"

	mods := newFakeModules()
	mods.link("caller.ts", "./svc", "svc.ts")
	loader := newFakeLoader()
	loader.put(svc)

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveMember(context.Background(), caller, &parser.ParsedFunction{}, "Svc", "run")
	if !ok || kind != callgraph.EdgeStaticMethod || id != (callgraph.FunctionId{FilePath: "svc.ts", QualifiedName: "Service.run"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ImportedIdentifierFallsBackToPlainExport(t *testing.T) {
	caller := newFile("caller.ts")
	caller.Imports = []parser.ImportInfo{{LocalName: "mod2", ImportedName: "whatever", ModuleSpec: "./mod2"}}

	mod2 := withFunctions(newFile("mod2.ts"), parser.ParsedFunction{QualifiedName: "helper"})
	mod2.ExportedNames["whatever"] = "whateverLocal"
	mod2.ExportedNames["helper"] = "helper"

	mods := newFakeModules()
	mods.link("caller.ts", "./mod2", "mod2.ts")
	loader := newFakeLoader()
	loader.put(mod2)

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveMember(context.Background(), caller, &parser.ParsedFunction{}, "mod2", "helper")
	if !ok || kind != callgraph.EdgeDirect || id != (callgraph.FunctionId{FilePath: "mod2.ts", QualifiedName: "helper"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ImportedIdentifierUnresolvedModuleUpgradesToExternal(t *testing.T) {
	caller := newFile("caller.ts")
	caller.Imports = []parser.ImportInfo{{LocalName: "ext", ImportedName: "default", ModuleSpec: "some-pkg"}}

	mods := newFakeModules()
	mods.includeExternal = true
	// deliberately no link registered for "some-pkg": the module resolver
	// itself could not find it.
	loader := newFakeLoader()

	r := NewSymbolResolver(mods, loader)
	id, kind, ok := r.ResolveMember(context.Background(), caller, &parser.ParsedFunction{}, "ext", "doStuff")
	if !ok || kind != callgraph.EdgeExternal {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
	if id.FilePath != "<external>::some-pkg" || id.QualifiedName != "doStuff" {
		t.Fatalf("got id=%v", id)
	}
}

func TestSymbolResolver_InstanceBindingToLocalClass(t *testing.T) {
	file := withFunctions(newFile("a.ts"), parser.ParsedFunction{QualifiedName: "Service.run"})
	file.InstanceBindings["svc"] = "Service"

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveMember(context.Background(), file, &parser.ParsedFunction{}, "svc", "run")
	if !ok || kind != callgraph.EdgeInstanceMethod || id != (callgraph.FunctionId{FilePath: "a.ts", QualifiedName: "Service.run"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_LocalClassStaticMethod(t *testing.T) {
	file := withFunctions(newFile("a.ts"), parser.ParsedFunction{QualifiedName: "Utils.format"})

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveMember(context.Background(), file, &parser.ParsedFunction{}, "Utils", "format")
	if !ok || kind != callgraph.EdgeStaticMethod || id != (callgraph.FunctionId{FilePath: "a.ts", QualifiedName: "Utils.format"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ConstructorFieldIndirectionThroughDiDefault(t *testing.T) {
	ctor := parser.ParsedFunction{
		QualifiedName: "Widget.constructor",
		Fields:        []parser.FieldAssignment{{FieldName: "logger", ParamName: "deps", PropName: "log"}},
		DiDefaults:    []parser.DiDefaultMapping{{ParamName: "deps", PropKey: "log", LocalRef: "defaultLogger"}},
	}
	render := parser.ParsedFunction{QualifiedName: "Widget.render"}
	defaultLogger := parser.ParsedFunction{QualifiedName: "defaultLogger"}
	file := withFunctions(newFile("widget.ts"), ctor, render, defaultLogger)

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveMember(context.Background(), file, &render, parser.SelfToken, "logger")
	if !ok || kind != callgraph.EdgeDiDefault || id != (callgraph.FunctionId{FilePath: "widget.ts", QualifiedName: "defaultLogger"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ConstructorFieldIndirectionDirectLocalRef(t *testing.T) {
	ctor := parser.ParsedFunction{
		QualifiedName: "Widget.constructor",
		Fields:        []parser.FieldAssignment{{FieldName: "handler", LocalRef: "onClick"}},
	}
	render := parser.ParsedFunction{QualifiedName: "Widget.render"}
	onClick := parser.ParsedFunction{QualifiedName: "onClick"}
	file := withFunctions(newFile("widget.ts"), ctor, render, onClick)

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveMember(context.Background(), file, &render, parser.SelfToken, "handler")
	if !ok || kind != callgraph.EdgeDiDefault || id != (callgraph.FunctionId{FilePath: "widget.ts", QualifiedName: "onClick"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ObjectLiteralFacadeBinding(t *testing.T) {
	file := withFunctions(newFile("a.ts"), parser.ParsedFunction{QualifiedName: "realAction"})
	file.ObjectPropertyBindings["Facade.action"] = "realAction"

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	id, kind, ok := r.ResolveMember(context.Background(), file, &parser.ParsedFunction{}, "Facade", "action")
	if !ok || kind != callgraph.EdgeStaticMethod || id != (callgraph.FunctionId{FilePath: "a.ts", QualifiedName: "realAction"}) {
		t.Fatalf("got id=%v kind=%v ok=%v", id, kind, ok)
	}
}

func TestSymbolResolver_ObjectLiteralFacadeGuardsAgainstTrivialSelfReference(t *testing.T) {
	file := newFile("a.ts")
	file.ObjectPropertyBindings["Facade.action"] = "Facade.action"

	r := NewSymbolResolver(newFakeModules(), newFakeLoader())
	_, _, ok := r.ResolveMember(context.Background(), file, &parser.ParsedFunction{}, "Facade", "action")
	if ok {
		t.Fatal("expected the trivial self-reference binding to be refused")
	}
}

func TestSymbolResolver_ReExportCycleDoesNotLoopForever(t *testing.T) {
	a := newFile("a.ts")
	a.ReExports = []parser.ReExportInfo{{ExportedName: "thing", ImportedName: "thing", ModuleSpec: "./b"}}
	b := newFile("b.ts")
	b.ReExports = []parser.ReExportInfo{{ExportedName: "thing", ImportedName: "thing", ModuleSpec: "./a"}}

	mods := newFakeModules()
	mods.link("a.ts", "./b", "b.ts")
	mods.link("b.ts", "./a", "a.ts")
	loader := newFakeLoader()
	loader.put(a)
	loader.put(b)

	r := NewSymbolResolver(mods, loader)
	_, ok := r.findExport(context.Background(), a, "thing")
	if ok {
		t.Fatal("expected an unresolvable re-export cycle to fail, not loop forever")
	}
}

func TestSymbolResolver_WildcardReExportForwardsTheWantedName(t *testing.T) {
	a := newFile("a.ts")
	a.ReExports = []parser.ReExportInfo{{ExportedName: "*", ModuleSpec: "./b"}}
	b := withFunctions(newFile("b.ts"), parser.ParsedFunction{QualifiedName: "thing"})
	b.ExportedNames["thing"] = "thing"

	mods := newFakeModules()
	mods.link("a.ts", "./b", "b.ts")
	loader := newFakeLoader()
	loader.put(b)

	r := NewSymbolResolver(mods, loader)
	id, ok := r.findExport(context.Background(), a, "thing")
	if !ok || id != (callgraph.FunctionId{FilePath: "b.ts", QualifiedName: "thing"}) {
		t.Fatalf("got id=%v ok=%v", id, ok)
	}
}

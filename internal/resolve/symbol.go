package resolve

import (
	"context"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/parser"
)

// Modules is everything the SymbolResolver needs from a module resolver.
// *ModuleResolver satisfies it; tests substitute a fake that resolves a
// fixed table of specifiers without touching a filesystem.
type Modules interface {
	Resolve(fromFile, specifier string) (Resolution, bool)
	IncludeExternal() bool
}

// maxResolveDepth bounds the recursion a chain of DI defaults or re-exports
// can take before the resolver gives up; real code never nests this deep,
// it only guards against an accidental cycle the parser-level inequality
// checks failed to catch.
const maxResolveDepth = 32

// SymbolResolver turns one parser.CallSite, in the context of its caller's
// ParsedFile and ParsedFunction, into a resolved callgraph target, per the
// ordered named-call and member-call strategies of spec.md §4.3.
type SymbolResolver struct {
	modules Modules
	files   FileLoader
}

// NewSymbolResolver returns a SymbolResolver resolving modules through
// modules and loading other files (to inspect their exports, classes, and
// re-exports) through files.
func NewSymbolResolver(modules Modules, files FileLoader) *SymbolResolver {
	return &SymbolResolver{modules: modules, files: files}
}

// Resolve dispatches site to ResolveNamed or ResolveMember by its kind.
func (r *SymbolResolver) Resolve(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, site parser.CallSite,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	switch site.Kind {
	case parser.CallNamed:
		return r.resolveNamed(ctx, file, fn, site.Identifier, 0)
	case parser.CallMember:
		return r.resolveMember(ctx, file, fn, site.Object, site.Property, 0)
	default:
		return callgraph.FunctionId{}, "", false
	}
}

// ResolveNamed resolves a bare identifier call against the caller's file
// and function.
func (r *SymbolResolver) ResolveNamed(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, identifier string,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	return r.resolveNamed(ctx, file, fn, identifier, 0)
}

func (r *SymbolResolver) resolveNamed(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, identifier string, guard int,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	if guard > maxResolveDepth {
		return callgraph.FunctionId{}, "", false
	}

	// 1. Local function.
	if target, ok := file.FunctionByName(identifier); ok {
		return callgraph.FunctionId{FilePath: file.FilePath, QualifiedName: target.QualifiedName}, callgraph.EdgeDirect, true
	}

	// 2. Import.
	if imp, ok := findImport(file, identifier, false); ok {
		if id, ok := r.followImportToExport(ctx, file, imp, imp.ImportedName); ok {
			return id, callgraph.EdgeDirect, true
		}
	}

	// 3. DI default: a same-named property was destructured into scope by
	// a DI-defaulted parameter, so the bare name resolves through the
	// default's localRef instead of a direct declaration.
	for _, m := range fn.DiDefaults {
		if m.PropKey != identifier || m.LocalRef == "" || m.LocalRef == identifier {
			continue
		}
		if id, _, ok := r.resolveNamed(ctx, file, fn, m.LocalRef, guard+1); ok {
			return id, callgraph.EdgeDiDefault, true
		}
	}

	return callgraph.FunctionId{}, "", false
}

// ResolveMember resolves an objectToken.propertyName() call against the
// caller's file and function.
func (r *SymbolResolver) ResolveMember(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, objectToken, propertyName string,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	return r.resolveMember(ctx, file, fn, objectToken, propertyName, 0)
}

func (r *SymbolResolver) resolveMember(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, objectToken, propertyName string, guard int,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	if guard > maxResolveDepth {
		return callgraph.FunctionId{}, "", false
	}

	// 1. DI default.
	if id, kind, ok := r.resolveMemberDiDefault(ctx, file, fn, objectToken, propertyName, guard); ok {
		return id, kind, true
	}

	// 2. Imported namespace.
	if imp, ok := findImport(file, objectToken, true); ok {
		if id, ok := r.followImportToExport(ctx, file, imp, propertyName); ok {
			return id, callgraph.EdgeDirect, true
		}
	}

	// 3. Imported identifier (class or module).
	if imp, ok := findImport(file, objectToken, false); ok {
		if id, kind, ok := r.resolveImportedMember(ctx, file, objectToken, propertyName); ok {
			return id, kind, true
		}
		if r.modules.IncludeExternal() && !isRelativeSpecifier(imp.ModuleSpec) {
			return callgraph.FunctionId{
				FilePath:      callgraph.ExternalFilePrefix + imp.ModuleSpec,
				QualifiedName: propertyName,
			}, callgraph.EdgeExternal, true
		}
	}

	// 4. Instance binding.
	if className, ok := file.InstanceBindings[objectToken]; ok {
		if id, ok := r.resolveInstanceBinding(ctx, file, className, propertyName); ok {
			return id, callgraph.EdgeInstanceMethod, true
		}
	}

	// 5. Local class.
	if target, ok := file.FunctionByName(objectToken + "." + propertyName); ok {
		return callgraph.FunctionId{FilePath: file.FilePath, QualifiedName: target.QualifiedName}, callgraph.EdgeStaticMethod, true
	}

	// 6. Constructor field indirection: objectToken is SelfToken, the
	// synthetic marker the parser substitutes for `this` inside a class
	// method, so the enclosing class is derived from the caller's own
	// qualified name rather than compared against objectToken directly.
	if objectToken == parser.SelfToken {
		if id, kind, ok := r.resolveConstructorFieldIndirection(ctx, file, fn, propertyName, guard); ok {
			return id, kind, true
		}
	}

	// 7. Object-literal binding.
	key := objectToken + "." + propertyName
	if target, ok := file.ObjectPropertyBindings[key]; ok && target != key {
		if target, ok := file.FunctionByName(target); ok {
			return callgraph.FunctionId{FilePath: file.FilePath, QualifiedName: target.QualifiedName}, callgraph.EdgeStaticMethod, true
		}
	}

	return callgraph.FunctionId{}, "", false
}

// resolveMemberDiDefault implements member-call strategy 1: a DI default
// keyed by (paramName, propName) matching (objectToken, propertyName).
func (r *SymbolResolver) resolveMemberDiDefault(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, objectToken, propertyName string, guard int,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	for _, m := range fn.DiDefaults {
		if m.ParamName != objectToken || m.PropKey != propertyName {
			continue
		}
		if m.ObjectRef != "" {
			if id, _, ok := r.resolveImportedMember(ctx, file, m.ObjectRef, m.MethodRef); ok {
				return id, callgraph.EdgeDiDefault, true
			}
			return callgraph.FunctionId{}, "", false
		}
		if m.LocalRef != "" {
			if id, _, ok := r.resolveNamed(ctx, file, fn, m.LocalRef, guard+1); ok {
				return id, callgraph.EdgeDiDefault, true
			}
		}
		return callgraph.FunctionId{}, "", false
	}
	return callgraph.FunctionId{}, "", false
}

// resolveConstructorFieldIndirection implements member-call strategy 6.
func (r *SymbolResolver) resolveConstructorFieldIndirection(
	ctx context.Context, file *parser.ParsedFile, fn *parser.ParsedFunction, propertyName string, guard int,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	className, ok := enclosingClass(fn.QualifiedName)
	if !ok {
		return callgraph.FunctionId{}, "", false
	}
	ctor, ok := file.FunctionByName(className + "." + "constructor")
	if !ok {
		return callgraph.FunctionId{}, "", false
	}
	for _, field := range ctor.Fields {
		if field.FieldName != propertyName {
			continue
		}
		if field.LocalRef != "" {
			if id, _, ok := r.resolveNamed(ctx, file, ctor, field.LocalRef, guard+1); ok {
				return id, callgraph.EdgeDiDefault, true
			}
			return callgraph.FunctionId{}, "", false
		}
		for _, m := range ctor.DiDefaults {
			if m.ParamName != field.ParamName || m.PropKey != field.PropName {
				continue
			}
			if m.ObjectRef != "" {
				if id, _, ok := r.resolveImportedMember(ctx, file, m.ObjectRef, m.MethodRef); ok {
					return id, callgraph.EdgeDiDefault, true
				}
			}
			if m.LocalRef != "" {
				if id, _, ok := r.resolveNamed(ctx, file, ctor, m.LocalRef, guard+1); ok {
					return id, callgraph.EdgeDiDefault, true
				}
			}
		}
		return callgraph.FunctionId{}, "", false
	}
	return callgraph.FunctionId{}, "", false
}

// resolveInstanceBinding resolves ClassName.propertyName, trying the
// imported-identifier chase first and falling back to a same-file class
// method. The caller always relabels the result as instance-method.
func (r *SymbolResolver) resolveInstanceBinding(
	ctx context.Context, file *parser.ParsedFile, className, propertyName string,
) (callgraph.FunctionId, bool) {
	if _, ok := findImport(file, className, false); ok {
		if id, _, ok := r.resolveImportedMember(ctx, file, className, propertyName); ok {
			return id, true
		}
		return callgraph.FunctionId{}, false
	}
	if target, ok := file.FunctionByName(className + "." + propertyName); ok {
		return callgraph.FunctionId{FilePath: file.FilePath, QualifiedName: target.QualifiedName}, true
	}
	return callgraph.FunctionId{}, false
}

// resolveImportedMember resolves objectLocal.memberName where objectLocal
// is a non-namespace import's local name: try the imported export as a
// class with a member named memberName (static-method), then as a plain
// named export literally called memberName (direct).
func (r *SymbolResolver) resolveImportedMember(
	ctx context.Context, file *parser.ParsedFile, objectLocal, memberName string,
) (callgraph.FunctionId, callgraph.EdgeKind, bool) {
	imp, ok := findImport(file, objectLocal, false)
	if !ok {
		return callgraph.FunctionId{}, "", false
	}
	res, ok := r.modules.Resolve(file.FilePath, imp.ModuleSpec)
	if !ok || res.IsExternal {
		return callgraph.FunctionId{}, "", false
	}
	target, err := r.files.Load(ctx, res.Path)
	if err != nil {
		return callgraph.FunctionId{}, "", false
	}
	if id, ok := r.findClassMember(ctx, target, imp.ImportedName, memberName); ok {
		return id, callgraph.EdgeStaticMethod, true
	}
	if id, ok := r.findExport(ctx, target, memberName); ok {
		return id, callgraph.EdgeDirect, true
	}
	return callgraph.FunctionId{}, "", false
}

// followImportToExport resolves imp's module and finds the export named
// wantedExport inside it.
func (r *SymbolResolver) followImportToExport(
	ctx context.Context, file *parser.ParsedFile, imp parser.ImportInfo, wantedExport string,
) (callgraph.FunctionId, bool) {
	res, ok := r.modules.Resolve(file.FilePath, imp.ModuleSpec)
	if !ok || res.IsExternal {
		return callgraph.FunctionId{}, false
	}
	target, err := r.files.Load(ctx, res.Path)
	if err != nil {
		return callgraph.FunctionId{}, false
	}
	return r.findExport(ctx, target, wantedExport)
}

// findExport finds the exported name wanted in file, following any
// re-export chain (including wildcard re-exports) it takes to get there.
func (r *SymbolResolver) findExport(ctx context.Context, file *parser.ParsedFile, wanted string) (callgraph.FunctionId, bool) {
	destFile, localName, ok := r.followExport(ctx, file, wanted, make(map[string]bool))
	if !ok {
		return callgraph.FunctionId{}, false
	}
	fn, ok := destFile.FunctionByName(localName)
	if !ok {
		return callgraph.FunctionId{}, false
	}
	return callgraph.FunctionId{FilePath: destFile.FilePath, QualifiedName: fn.QualifiedName}, true
}

// findClassMember finds ${localName}.${memberName} after resolving
// className through any re-export chain; className that never appears in
// an export or re-export (a purely local, unexported class) falls back to
// looking directly inside file itself. A destination-file façade binding
// is tried as a last resort, in case className actually names an
// object-literal façade rather than a real class.
func (r *SymbolResolver) findClassMember(
	ctx context.Context, file *parser.ParsedFile, className, memberName string,
) (callgraph.FunctionId, bool) {
	destFile, localName := file, className
	if df, ln, ok := r.followExport(ctx, file, className, make(map[string]bool)); ok {
		destFile, localName = df, ln
	}

	qualified := localName + "." + memberName
	if fn, ok := destFile.FunctionByName(qualified); ok {
		return callgraph.FunctionId{FilePath: destFile.FilePath, QualifiedName: fn.QualifiedName}, true
	}
	if target, ok := destFile.ObjectPropertyBindings[qualified]; ok {
		if fn, ok := destFile.FunctionByName(target); ok {
			return callgraph.FunctionId{FilePath: destFile.FilePath, QualifiedName: fn.QualifiedName}, true
		}
	}
	return callgraph.FunctionId{}, false
}

// followExport walks file's re-export chain (named, then wildcard) looking
// for wanted, guarded against cycles by visited, and returns the file and
// local name the search bottoms out at.
func (r *SymbolResolver) followExport(
	ctx context.Context, file *parser.ParsedFile, wanted string, visited map[string]bool,
) (*parser.ParsedFile, string, bool) {
	key := file.FilePath + "\x00" + wanted
	if visited[key] {
		return nil, "", false
	}
	visited[key] = true

	for _, re := range file.ReExports {
		if re.ExportedName != wanted {
			continue
		}
		if next, local, ok := r.chaseReExport(ctx, file, re, re.ImportedName, visited); ok {
			return next, local, true
		}
	}

	if local, ok := file.ExportedNames[wanted]; ok {
		return file, local, true
	}

	for _, re := range file.ReExports {
		if re.ExportedName != "*" {
			continue
		}
		if next, local, ok := r.chaseReExport(ctx, file, re, wanted, visited); ok {
			return next, local, true
		}
	}

	return nil, "", false
}

func (r *SymbolResolver) chaseReExport(
	ctx context.Context, file *parser.ParsedFile, re parser.ReExportInfo, importedName string, visited map[string]bool,
) (*parser.ParsedFile, string, bool) {
	res, ok := r.modules.Resolve(file.FilePath, re.ModuleSpec)
	if !ok || res.IsExternal {
		return nil, "", false
	}
	next, err := r.files.Load(ctx, res.Path)
	if err != nil {
		return nil, "", false
	}
	return r.followExport(ctx, next, importedName, visited)
}

func findImport(file *parser.ParsedFile, localName string, namespace bool) (parser.ImportInfo, bool) {
	for _, imp := range file.Imports {
		if imp.LocalName == localName && imp.IsNamespace == namespace {
			return imp, true
		}
	}
	return parser.ImportInfo{}, false
}

// enclosingClass returns the class name prefix of a "ClassName.method"
// qualified name. A name with no dot has no enclosing class.
func enclosingClass(qualifiedName string) (string, bool) {
	idx := strings.LastIndex(qualifiedName, ".")
	if idx < 0 {
		return "", false
	}
	return qualifiedName[:idx], true
}

// Package parser extracts a ParsedFile — every function-like declaration,
// its call sites, and the import/export/binding maps needed to resolve
// those call sites later — from one JavaScript or TypeScript source file.
package parser

// CallSiteKind discriminates the two call-site shapes a call expression
// can take.
type CallSiteKind int

const (
	// CallNamed is a call to a bare identifier: foo().
	CallNamed CallSiteKind = iota
	// CallMember is a call to a property access: obj.prop().
	CallMember
)

// SelfToken is the synthetic object token substituted for a property
// access on `this` inside a class method, so instance-method calls read
// like member calls on the enclosing class.
const SelfToken = "<self>"

// CallSite is one call expression found in a function body, in source
// order.
type CallSite struct {
	Kind CallSiteKind
	Line int

	// Named fields.
	Identifier string

	// Member fields. Object is either a plain identifier or SelfToken.
	Object   string
	Property string
}

// ImportInfo is one binding introduced by an import statement.
type ImportInfo struct {
	LocalName    string
	ImportedName string // concrete name, "default", or "*" for namespace imports
	ModuleSpec   string
	IsNamespace  bool
}

// ReExportInfo is one `export { a as b } from 'mod'` entry.
type ReExportInfo struct {
	ExportedName string
	ImportedName string
	ModuleSpec   string
}

// DiDefaultMapping is one dependency-injection default extracted from a
// parameter default object literal: `f(p = { k: v })`.
type DiDefaultMapping struct {
	ParamName string
	PropKey   string

	// Exactly one of the following is set.
	LocalRef  string // value was a bare identifier
	ObjectRef string // value was objectRef.methodRef
	MethodRef string
}

// FieldAssignment is one constructor-body `this.field = …` statement that
// plumbs a constructor parameter, or a property of one, into an instance
// field.
type FieldAssignment struct {
	FieldName string

	// Either (ParamName, PropName) for `this.f = p.k`, or LocalRef for
	// `this.f = p` where p is itself a constructor parameter.
	ParamName string
	PropName  string
	LocalRef  string
}

// ParsedFunction is one function-like declaration found in a file.
type ParsedFunction struct {
	QualifiedName  string
	FirstLine      int
	LastLine       int
	IsInstrumented bool

	CallSites  []CallSite
	DiDefaults []DiDefaultMapping
	Fields     []FieldAssignment // set only on constructors

	Description string
	Signature   string
}

// ParsedFile is everything extracted from one source file.
type ParsedFile struct {
	FilePath string

	Functions []ParsedFunction
	Imports   []ImportInfo
	ReExports []ReExportInfo

	// ExportedNames maps an exported name to its local name. A default
	// export uses the key "default".
	ExportedNames map[string]string

	// ObjectPropertyBindings maps an object-literal facade member's
	// qualified name (Obj.prop) to the qualified name of the function it
	// ultimately references.
	ObjectPropertyBindings map[string]string

	// InstanceBindings maps a variable name to the class name it was
	// constructed from: `x = new ClassName()`.
	InstanceBindings map[string]string
}

// FunctionByName returns the ParsedFunction with the given qualified name,
// if present. Qualified names are unique within a file.
func (f *ParsedFile) FunctionByName(qualifiedName string) (*ParsedFunction, bool) {
	for i := range f.Functions {
		if f.Functions[i].QualifiedName == qualifiedName {
			return &f.Functions[i], true
		}
	}
	return nil, false
}

// NewParsedFile returns an empty ParsedFile with its maps initialized.
func NewParsedFile(filePath string) *ParsedFile {
	return &ParsedFile{
		FilePath:               filePath,
		ExportedNames:          make(map[string]string),
		ObjectPropertyBindings: make(map[string]string),
		InstanceBindings:       make(map[string]string),
	}
}

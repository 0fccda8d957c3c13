package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// extractImport handles one import_statement node, appending its bindings
// to file.Imports.
func extractImport(source []byte, node *sitter.Node, file *ParsedFile) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	moduleSpec := stripQuotes(text(source, sourceNode))

	clause := childOfKind(node, "import_clause")
	if clause == nil {
		return
	}
	for i := uint(0); i < clause.ChildCount(); i++ {
		part := clause.Child(i)
		switch part.Kind() {
		case "identifier":
			file.Imports = append(file.Imports, ImportInfo{
				LocalName: text(source, part), ImportedName: "default", ModuleSpec: moduleSpec,
			})
		case "namespace_import":
			local := lastNamedChild(part)
			if local != nil {
				file.Imports = append(file.Imports, ImportInfo{
					LocalName: text(source, local), ImportedName: "*", ModuleSpec: moduleSpec, IsNamespace: true,
				})
			}
		case "named_imports":
			for j := uint(0); j < part.ChildCount(); j++ {
				spec := part.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				alias := spec.ChildByFieldName("alias")
				if name == nil {
					continue
				}
				localName := text(source, name)
				if alias != nil {
					localName = text(source, alias)
				}
				file.Imports = append(file.Imports, ImportInfo{
					LocalName: localName, ImportedName: text(source, name), ModuleSpec: moduleSpec,
				})
			}
		}
	}
}

// extractExport handles one export_statement node: plain re-exports,
// named re-exports from a source module, wildcard re-exports, default
// exports, and exported declarations.
func extractExport(source []byte, node *sitter.Node, file *ParsedFile) {
	sourceNode := node.ChildByFieldName("source")
	var moduleSpec string
	if sourceNode != nil {
		moduleSpec = stripQuotes(text(source, sourceNode))
	}

	if hasChildOfKind(node, "*") {
		if moduleSpec != "" {
			file.ReExports = append(file.ReExports, ReExportInfo{ExportedName: "*", ModuleSpec: moduleSpec})
		}
		return
	}

	if clause := childOfKind(node, "export_clause"); clause != nil {
		for i := uint(0); i < clause.ChildCount(); i++ {
			spec := clause.Child(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			alias := spec.ChildByFieldName("alias")
			if name == nil {
				continue
			}
			exportedName := text(source, name)
			if alias != nil {
				exportedName = text(source, alias)
			}
			if moduleSpec != "" {
				file.ReExports = append(file.ReExports, ReExportInfo{
					ExportedName: exportedName, ImportedName: text(source, name), ModuleSpec: moduleSpec,
				})
				file.ExportedNames[exportedName] = exportedName
			} else {
				file.ExportedNames[exportedName] = text(source, name)
			}
		}
		return
	}

	if hasChildOfKind(node, "default") {
		decl := node.ChildByFieldName("declaration")
		if decl == nil {
			return
		}
		if name := declaredName(source, decl); name != "" {
			file.ExportedNames["default"] = name
		}
		return
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if name := declaredName(source, decl); name != "" {
			file.ExportedNames[name] = name
		}
	}
}

// declaredName returns the name a function/class/variable declaration
// introduces, used when a declaration is directly exported.
func declaredName(source []byte, decl *sitter.Node) string {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		if n := decl.ChildByFieldName("name"); n != nil {
			return text(source, n)
		}
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < decl.ChildCount(); i++ {
			if c := decl.Child(i); c.Kind() == "variable_declarator" {
				if n := c.ChildByFieldName("name"); n != nil {
					return text(source, n)
				}
			}
		}
	case "identifier":
		return text(source, decl)
	}
	return ""
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	var last *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c.IsNamed() {
			last = c
		}
	}
	return last
}

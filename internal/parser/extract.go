package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// Extract walks a parsed file's top-level statements and assembles a
// ParsedFile: every function-like declaration, class method, object-
// literal façade, import/export, and instance binding, plus the
// synthetic <module> scope when top-level statements make calls.
func Extract(source []byte, root *sitter.Node, filePath string) *ParsedFile {
	file := NewParsedFile(filePath)

	instrumented := collectInstrumentedClasses(source, root)

	var moduleCalls []CallSite
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if !stmt.IsNamed() {
			continue
		}
		extractTopLevelStatement(source, stmt, file, instrumented, &moduleCalls)
	}

	if len(moduleCalls) > 0 {
		file.Functions = append(file.Functions, ParsedFunction{
			QualifiedName: ModuleScopeName,
			FirstLine:     1,
			LastLine:      lastLine(root),
			CallSites:     moduleCalls,
		})
	}

	return file
}

// ModuleScopeName names the synthetic function representing top-level
// expression-statement call sites in a file.
const ModuleScopeName = "<module>"

// collectInstrumentedClasses finds every top-level
// instrumentOwnMethodsInPlace(ClassName) statement.
func collectInstrumentedClasses(source []byte, root *sitter.Node) map[string]bool {
	out := make(map[string]bool)
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		call := firstNamedChild(stmt)
		if call == nil || call.Kind() != "call_expression" {
			continue
		}
		callee := call.ChildByFieldName("function")
		if callee == nil || callee.Kind() != "identifier" || text(source, callee) != "instrumentOwnMethodsInPlace" {
			continue
		}
		args := call.ChildByFieldName("arguments")
		if arg := firstArgument(args); arg != nil && arg.Kind() == "identifier" {
			out[text(source, arg)] = true
		}
	}
	return out
}

func extractTopLevelStatement(
	source []byte, stmt *sitter.Node, file *ParsedFile, instrumented map[string]bool, moduleCalls *[]CallSite,
) {
	switch stmt.Kind() {
	case "import_statement":
		extractImport(source, stmt, file)
	case "export_statement":
		extractExport(source, stmt, file)
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			extractDeclaration(source, decl, file, instrumented)
		}
	case "function_declaration", "generator_function_declaration", "class_declaration":
		extractDeclaration(source, stmt, file, instrumented)
	case "lexical_declaration", "variable_declaration":
		extractVariableDeclaration(source, stmt, file, instrumented)
	case "expression_statement":
		if call := collectCallSites(source, stmt, ""); len(call) > 0 {
			*moduleCalls = append(*moduleCalls, call...)
		}
	}
}

func extractDeclaration(source []byte, decl *sitter.Node, file *ParsedFile, instrumented map[string]bool) {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration":
		name := decl.ChildByFieldName("name")
		if name == nil {
			return
		}
		qualified := text(source, name)
		file.Functions = append(file.Functions, buildFunction(source, decl, qualified, "", false))
		extractNestedDeclarations(source, decl.ChildByFieldName("body"), qualified, file)
	case "class_declaration":
		extractClass(source, decl, file, instrumented)
	}
}

func extractClass(source []byte, decl *sitter.Node, file *ParsedFile, instrumented map[string]bool) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := text(source, nameNode)
	isInstrumented := instrumented[className]

	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		switch member.Kind() {
		case "method_definition":
			memberName := member.ChildByFieldName("name")
			if memberName == nil {
				continue
			}
			methodName := text(source, memberName)
			isConstructor := methodName == "constructor"
			qualified := className + "." + methodName
			fn := buildFunction(source, member, qualified, className, isConstructor)
			fn.IsInstrumented = isInstrumented
			file.Functions = append(file.Functions, fn)
			extractNestedDeclarations(source, member.ChildByFieldName("body"), qualified, file)
		case "public_field_definition", "field_definition":
			memberName := member.ChildByFieldName("property")
			value := member.ChildByFieldName("value")
			if memberName == nil || value == nil {
				continue
			}
			switch value.Kind() {
			case "arrow_function", "function_expression", "function":
				qualified := className + "." + text(source, memberName)
				fn := buildFunction(source, value, qualified, className, false)
				fn.IsInstrumented = isInstrumented
				file.Functions = append(file.Functions, fn)
				extractNestedDeclarations(source, value.ChildByFieldName("body"), qualified, file)
			}
		}
	}
}

func extractVariableDeclaration(source []byte, decl *sitter.Node, file *ParsedFile, instrumented map[string]bool) {
	for i := uint(0); i < decl.ChildCount(); i++ {
		declarator := decl.Child(i)
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		value := declarator.ChildByFieldName("value")
		if nameNode == nil || value == nil || nameNode.Kind() != "identifier" {
			continue
		}
		varName := text(source, nameNode)

		if inner, wrapped := unwrapInstrumentation(source, value); wrapped {
			fn := buildFunction(source, inner, varName, "", false)
			fn.IsInstrumented = true
			file.Functions = append(file.Functions, fn)
			extractNestedDeclarations(source, inner.ChildByFieldName("body"), varName, file)
			continue
		}

		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
			file.Functions = append(file.Functions, buildFunction(source, value, varName, "", false))
			extractNestedDeclarations(source, value.ChildByFieldName("body"), varName, file)
		case "new_expression":
			ctor := value.ChildByFieldName("constructor")
			if ctor != nil && ctor.Kind() == "identifier" {
				file.InstanceBindings[varName] = text(source, ctor)
			}
		default:
			facade := extractObjectLiteralFacade(source, varName, value)
			for k, v := range facade.bindings {
				file.ObjectPropertyBindings[varName+"."+k] = v
			}
			file.Functions = append(file.Functions, facade.functions...)
		}
	}
}

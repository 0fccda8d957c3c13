package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// extractNestedDeclarations walks a function or method body looking for
// further nested function/class declarations and declarator-bound
// function expressions. Each is its own independent scope and gets its
// own ParsedFunction: nested functions and declarator-bound function
// expressions are qualified as "prefix.localName", while a nested class
// goes through extractClass and its members keep the plain
// "ClassName.member" form, without the prefix. Call arguments are
// never descended into here: a function-valued call argument is a
// continuation of its enclosing scope, not an independent one, and its
// call sites are already attributed there by collectCallSites.
func extractNestedDeclarations(source []byte, body *sitter.Node, prefix string, file *ParsedFile) {
	if body == nil {
		return
	}
	walkNested(source, body, prefix, file)
}

func walkNested(source []byte, node *sitter.Node, prefix string, file *ParsedFile) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "call_expression", "new_expression":
		return
	case "function_declaration", "generator_function_declaration":
		name := node.ChildByFieldName("name")
		if name == nil {
			return
		}
		qualified := prefix + "." + text(source, name)
		file.Functions = append(file.Functions, buildFunction(source, node, qualified, "", false))
		extractNestedDeclarations(source, node.ChildByFieldName("body"), qualified, file)
		return
	case "class_declaration":
		extractClass(source, node, file, map[string]bool{})
		return
	case "variable_declarator":
		nameNode := node.ChildByFieldName("name")
		value := node.ChildByFieldName("value")
		if nameNode != nil && value != nil && nameNode.Kind() == "identifier" {
			qualified := prefix + "." + text(source, nameNode)
			if inner, wrapped := unwrapInstrumentation(source, value); wrapped {
				fn := buildFunction(source, inner, qualified, "", false)
				fn.IsInstrumented = true
				file.Functions = append(file.Functions, fn)
				extractNestedDeclarations(source, inner.ChildByFieldName("body"), qualified, file)
				return
			}
			switch value.Kind() {
			case "arrow_function", "function_expression", "function":
				file.Functions = append(file.Functions, buildFunction(source, value, qualified, "", false))
				extractNestedDeclarations(source, value.ChildByFieldName("body"), qualified, file)
				return
			}
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkNested(source, node.Child(i), prefix, file)
	}
}

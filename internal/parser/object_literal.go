package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// unwrapFacadeWrapper strips `Object.freeze(…)`, `… as const`, and
// `… satisfies T` wrappers so a façade's object literal can be recognized
// underneath any of them.
func unwrapFacadeWrapper(source []byte, node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "as_expression", "satisfies_expression":
			if inner := node.ChildByFieldName("expression"); inner != nil {
				node = inner
				continue
			}
			return node
		case "call_expression":
			callee := node.ChildByFieldName("function")
			if callee != nil && callee.Kind() == "member_expression" && text(source, callee) == "Object.freeze" {
				args := node.ChildByFieldName("arguments")
				if first := firstArgument(args); first != nil {
					node = first
					continue
				}
			}
			return node
		default:
			return node
		}
	}
	return node
}

func firstArgument(args *sitter.Node) *sitter.Node {
	if args == nil {
		return nil
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		if c := args.Child(i); c.IsNamed() {
			return c
		}
	}
	return nil
}

// objectLiteralFacade describes the bindings and inline functions
// extracted from one `const Name = { … }` façade.
type objectLiteralFacade struct {
	bindings  map[string]string
	functions []ParsedFunction
}

// extractObjectLiteralFacade recognizes the property shapes of an object
// literal bound to varName: shorthand and identifier-valued properties
// become ObjectPropertyBindings entries, inline-function and
// method-shorthand properties become their own ParsedFunctions qualified
// as "varName.propertyName". Spread elements and computed keys are
// ignored.
func extractObjectLiteralFacade(source []byte, varName string, value *sitter.Node) objectLiteralFacade {
	facade := objectLiteralFacade{bindings: make(map[string]string)}

	obj := unwrapFacadeWrapper(source, value)
	if obj == nil || obj.Kind() != "object" {
		return facade
	}

	for i := uint(0); i < obj.ChildCount(); i++ {
		entry := obj.Child(i)
		switch entry.Kind() {
		case "shorthand_property_identifier":
			name := text(source, entry)
			facade.bindings[name] = name
		case "pair":
			key := entry.ChildByFieldName("key")
			val := entry.ChildByFieldName("value")
			if key == nil || val == nil || key.Kind() == "computed_property_name" {
				continue
			}
			propName := text(source, key)
			switch val.Kind() {
			case "identifier":
				facade.bindings[propName] = text(source, val)
			case "arrow_function", "function_expression", "function":
				qualified := varName + "." + propName
				facade.functions = append(facade.functions, buildFunction(source, val, qualified, "", false))
			}
		case "method_definition":
			nameNode := entry.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			qualified := varName + "." + text(source, nameNode)
			facade.functions = append(facade.functions, buildFunction(source, entry, qualified, "", false))
		case "spread_element":
			// Ignored: the spread source's own exports already carry
			// whatever bindings it contributes.
		}
	}
	return facade
}

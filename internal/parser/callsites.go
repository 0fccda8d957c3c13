package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// nestedScopeKinds are node kinds that start an independent scope: call
// sites inside them belong to that scope, never to the function whose
// body is currently being walked, unless the node is reached through the
// call-argument continuation rule in walkCallArguments.
var nestedScopeKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"arrow_function":                 true,
	"class_declaration":              true,
	"method_definition":              true,
}

// collectCallSites walks body, recording every call site that belongs to
// the scope rooted at body. selfClass is the enclosing class name, used to
// rewrite `this.prop()` into a Member call site on the class; pass "" at
// module scope or inside a free function.
func collectCallSites(source []byte, body *sitter.Node, selfClass string) []CallSite {
	var out []CallSite
	walkScope(source, body, selfClass, &out)
	return out
}

func walkScope(source []byte, node *sitter.Node, selfClass string, out *[]CallSite) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "call_expression":
		extractCallExpression(source, node, selfClass, out)
		walkScope(source, node.ChildByFieldName("function"), selfClass, out)
		walkCallArguments(source, node.ChildByFieldName("arguments"), selfClass, out)
		return
	case "new_expression":
		extractNewExpression(source, node, out)
		walkCallArguments(source, node.ChildByFieldName("arguments"), selfClass, out)
		return
	default:
		if nestedScopeKinds[node.Kind()] {
			return
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkScope(source, node.Child(i), selfClass, out)
	}
}

// walkCallArguments walks a call's argument list. A function-like
// argument is a continuation of the enclosing scope: its body contributes
// call sites directly to out, rather than starting a new excluded scope.
func walkCallArguments(source []byte, args *sitter.Node, selfClass string, out *[]CallSite) {
	if args == nil {
		return
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		switch arg.Kind() {
		case "arrow_function", "function_expression", "function", "generator_function":
			body := arg.ChildByFieldName("body")
			walkScope(source, body, selfClass, out)
		default:
			walkScope(source, arg, selfClass, out)
		}
	}
}

func extractCallExpression(source []byte, node *sitter.Node, selfClass string, out *[]CallSite) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return
	}
	ln := line(node)

	switch callee.Kind() {
	case "identifier":
		*out = append(*out, CallSite{Kind: CallNamed, Identifier: text(source, callee), Line: ln})
	case "member_expression":
		object := callee.ChildByFieldName("object")
		property := callee.ChildByFieldName("property")
		if object == nil || property == nil {
			return
		}
		switch object.Kind() {
		case "identifier":
			*out = append(*out, CallSite{
				Kind: CallMember, Object: text(source, object), Property: text(source, property), Line: ln,
			})
		case "this":
			if selfClass != "" {
				*out = append(*out, CallSite{
					Kind: CallMember, Object: SelfToken, Property: text(source, property), Line: ln,
				})
			}
		default:
			// Deeper property-access chains (a.b.c()) yield only the
			// outermost property access; since that access is not on a
			// bare identifier or `this`, no call site is recorded at all.
		}
	default:
		// Calling the result of another expression (an IIFE, a chained
		// call result, …) is not a recognized call-site shape.
	}
}

func extractNewExpression(source []byte, node *sitter.Node, out *[]CallSite) {
	ctor := node.ChildByFieldName("constructor")
	if ctor == nil || ctor.Kind() != "identifier" {
		return
	}
	*out = append(*out, CallSite{
		Kind: CallMember, Object: text(source, ctor), Property: "constructor", Line: line(node),
	})
}

package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// buildFunction assembles a ParsedFunction from a function-like node
// (function_declaration, function_expression/"function", arrow_function,
// or method_definition), given its already-determined qualified name and
// the enclosing class name (for `this` rewriting inside methods; "" for
// free functions and arrow/function expressions).
func buildFunction(source []byte, node *sitter.Node, qualifiedName, selfClass string, isConstructor bool) ParsedFunction {
	body := node.ChildByFieldName("body")

	fn := ParsedFunction{
		QualifiedName: qualifiedName,
		FirstLine:     line(node),
		LastLine:      lastLine(node),
		CallSites:     collectCallSites(source, body, selfClass),
		DiDefaults:    extractDiDefaults(source, node.ChildByFieldName("parameters")),
		Description:   leadingDescription(source, node),
	}
	if !isConstructor {
		fn.Signature = buildSignature(source, node)
	}
	if isConstructor {
		fn.Fields = extractFieldAssignments(source, body, node.ChildByFieldName("parameters"))
	}
	return fn
}

// buildSignature renders the verbatim parameter list plus an optional
// `: returnTypeText` suffix.
func buildSignature(source []byte, node *sitter.Node) string {
	params := node.ChildByFieldName("parameters")
	var sig string
	if params != nil {
		sig = text(source, params)
	} else if param := node.ChildByFieldName("parameter"); param != nil {
		// Bare-identifier arrow parameter: x => … has no parenthesized list.
		sig = "(" + text(source, param) + ")"
	} else {
		sig = "()"
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += ": " + strings.TrimPrefix(text(source, ret), ":")
	}
	return sig
}

// leadingDescription returns the free-text lead of a doc comment
// immediately preceding node, with structured @tag lines stripped.
func leadingDescription(source []byte, node *sitter.Node) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}
	raw := text(source, prev)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")

	var lead []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "@") {
			break
		}
		if l == "" && len(lead) == 0 {
			continue
		}
		lead = append(lead, l)
	}
	return strings.TrimSpace(strings.Join(lead, " "))
}

// instrumentFnSentinel is the single hardcoded callee identifier
// unwrapInstrumentation recognizes; a call to anything else, however its
// arguments look, is left alone.
const instrumentFnSentinel = "instrumentFn"

// unwrapInstrumentation detects `instrumentFn(…, fnExpr)` or
// `instrumentFn(fnExpr)` initializer wrappers and returns the inner
// function-like node if value is such a wrapper.
func unwrapInstrumentation(source []byte, value *sitter.Node) (*sitter.Node, bool) {
	if value == nil || value.Kind() != "call_expression" {
		return nil, false
	}
	callee := value.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" {
		return nil, false
	}
	if text(source, callee) != instrumentFnSentinel {
		return nil, false
	}
	args := value.ChildByFieldName("arguments")
	if args == nil {
		return nil, false
	}
	var last *sitter.Node
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		switch arg.Kind() {
		case "(", ")", ",":
			continue
		}
		last = arg
	}
	if last == nil {
		return nil, false
	}
	switch last.Kind() {
	case "arrow_function", "function_expression", "function":
		return last, true
	default:
		return nil, false
	}
}

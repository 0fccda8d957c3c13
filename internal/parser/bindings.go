package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// paramEntry is one parameter's name plus its default-value expression,
// if any, normalized across the plain-JS `assignment_pattern` shape and
// the TypeScript `required_parameter`/`optional_parameter` shape.
type paramEntry struct {
	name    string
	pattern *sitter.Node
	value   *sitter.Node
}

func parameterEntries(source []byte, params *sitter.Node) []paramEntry {
	if params == nil {
		return nil
	}
	var out []paramEntry
	for i := uint(0); i < params.ChildCount(); i++ {
		p := params.Child(i)
		switch p.Kind() {
		case "identifier":
			out = append(out, paramEntry{name: text(source, p), pattern: p})
		case "assignment_pattern":
			left := p.ChildByFieldName("left")
			right := p.ChildByFieldName("right")
			out = append(out, paramEntry{name: text(source, left), pattern: left, value: right})
		case "required_parameter", "optional_parameter":
			pattern := p.ChildByFieldName("pattern")
			value := p.ChildByFieldName("value")
			out = append(out, paramEntry{name: text(source, pattern), pattern: pattern, value: value})
		}
	}
	return out
}

func paramNameSet(source []byte, params *sitter.Node) map[string]bool {
	set := make(map[string]bool)
	for _, p := range parameterEntries(source, params) {
		if p.name != "" {
			set[p.name] = true
		}
	}
	return set
}

// extractDiDefaults inspects every parameter whose default value is an
// object literal, mapping each own property to a DiDefaultMapping.
func extractDiDefaults(source []byte, params *sitter.Node) []DiDefaultMapping {
	var out []DiDefaultMapping
	for _, p := range parameterEntries(source, params) {
		if p.value == nil || p.value.Kind() != "object" {
			continue
		}
		obj := p.value
		for i := uint(0); i < obj.ChildCount(); i++ {
			entry := obj.Child(i)
			switch entry.Kind() {
			case "shorthand_property_identifier":
				key := text(source, entry)
				out = append(out, DiDefaultMapping{ParamName: p.name, PropKey: key, LocalRef: key})
			case "pair":
				key := text(source, entry.ChildByFieldName("key"))
				value := entry.ChildByFieldName("value")
				if value == nil {
					continue
				}
				switch value.Kind() {
				case "identifier":
					out = append(out, DiDefaultMapping{ParamName: p.name, PropKey: key, LocalRef: text(source, value)})
				case "member_expression":
					vobj := value.ChildByFieldName("object")
					vprop := value.ChildByFieldName("property")
					if vobj != nil && vprop != nil && vobj.Kind() == "identifier" {
						out = append(out, DiDefaultMapping{
							ParamName: p.name, PropKey: key,
							ObjectRef: text(source, vobj), MethodRef: text(source, vprop),
						})
					}
				}
			}
		}
	}
	return out
}

// extractFieldAssignments scans the direct statements of a constructor
// body for `this.field = …` plumbing of a constructor parameter into an
// instance field.
func extractFieldAssignments(source []byte, body *sitter.Node, params *sitter.Node) []FieldAssignment {
	if body == nil {
		return nil
	}
	names := paramNameSet(source, params)

	var out []FieldAssignment
	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		expr := firstNamedChild(stmt)
		if expr == nil || expr.Kind() != "assignment_expression" {
			continue
		}
		left := expr.ChildByFieldName("left")
		right := expr.ChildByFieldName("right")
		if left == nil || right == nil || left.Kind() != "member_expression" {
			continue
		}
		object := left.ChildByFieldName("object")
		property := left.ChildByFieldName("property")
		if object == nil || property == nil || object.Kind() != "this" {
			continue
		}
		fieldName := text(source, property)

		switch right.Kind() {
		case "identifier":
			ident := text(source, right)
			if names[ident] {
				out = append(out, FieldAssignment{FieldName: fieldName, LocalRef: ident})
			}
		case "member_expression":
			robj := right.ChildByFieldName("object")
			rprop := right.ChildByFieldName("property")
			if robj != nil && rprop != nil && robj.Kind() == "identifier" && names[text(source, robj)] {
				out = append(out, FieldAssignment{
					FieldName: fieldName, ParamName: text(source, robj), PropName: text(source, rprop),
				})
			}
		}
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).IsNamed() {
			return node.Child(i)
		}
	}
	return nil
}

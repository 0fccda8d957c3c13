package render

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// documentSchemaSpec is a minimal OpenAPI 3.0 document whose sole purpose
// is to carry the Document JSON schema under components.schemas.Document,
// the same LoadFromData-then-Validate shape the openapi loader already
// uses against an externally supplied spec, here turned around to
// self-validate the interchange document this package produces rather
// than a schema this package consumes.
const documentSchemaSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "ts-callpath interchange", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Node": {
        "type": "object",
        "required": ["id", "filePath", "qualifiedName", "line", "isInstrumented", "isSource", "isTarget"],
        "properties": {
          "id": {"type": "string"},
          "filePath": {"type": "string"},
          "qualifiedName": {"type": "string"},
          "line": {"type": "integer"},
          "isInstrumented": {"type": "boolean"},
          "isSource": {"type": "boolean"},
          "isTarget": {"type": "boolean"},
          "description": {"type": "string"},
          "signature": {"type": "string"},
          "sourceSnippet": {"type": "string"},
          "isExternal": {"type": "boolean"}
        }
      },
      "Edge": {
        "type": "object",
        "required": ["from", "to", "kind", "callLine"],
        "properties": {
          "from": {"type": "string"},
          "to": {"type": "string"},
          "kind": {
            "type": "string",
            "enum": ["direct", "static-method", "di-default", "instrument-wrapper", "instance-method", "re-export", "external"]
          },
          "callLine": {"type": "integer"}
        }
      },
      "Document": {
        "type": "object",
        "required": ["nodes", "edges"],
        "properties": {
          "nodes": {"type": "array", "items": {"$ref": "#/components/schemas/Node"}},
          "edges": {"type": "array", "items": {"$ref": "#/components/schemas/Edge"}},
          "codeowners": {
            "type": "object",
            "additionalProperties": {"type": "array", "items": {"type": "string"}}
          },
          "repoRoot": {"type": "string"},
          "editor": {"type": "string"}
        }
      }
    }
  }
}`

var documentSchema *openapi3.SchemaRef

func init() {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(documentSchemaSpec))
	if err != nil {
		panic(fmt.Sprintf("render: invalid embedded openapi document: %v", err))
	}
	if err := doc.Validate(context.Background()); err != nil {
		panic(fmt.Sprintf("render: embedded openapi document failed validation: %v", err))
	}
	ref, ok := doc.Components.Schemas["Document"]
	if !ok {
		panic("render: embedded openapi document has no Document schema")
	}
	documentSchema = ref
}

// validateAgainstSchema checks value (the result of json.Unmarshal of a
// marshaled Document into a generic any) against the embedded Document
// schema.
func validateAgainstSchema(value any) error {
	return documentSchema.Value.VisitJSON(value)
}

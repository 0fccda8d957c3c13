package render

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes doc as the interchange JSON document and validates
// the encoded value against the embedded OpenAPI schema before returning
// it, so a caller never ships a document that has drifted from the shape
// downstream renderers expect.
func MarshalJSON(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render: marshal document: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("render: re-decode document for validation: %w", err)
	}
	if err := validateAgainstSchema(generic); err != nil {
		return nil, fmt.Errorf("render: document failed schema validation: %w", err)
	}

	return data, nil
}

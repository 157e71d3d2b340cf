// Package schema generates the JSON Schemas describing the addon's wire
// request/response forms and its config document.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// reflector inlines struct definitions, so each schema is self-contained
// and can be compiled on its own.
var reflector = jsonschema.Reflector{ExpandedStruct: true}

// GenerateSchema reflects v into an indented Draft 2020-12 schema.
// Unknown properties are rejected by the generated schema.
func GenerateSchema(v any) ([]byte, error) {
	out, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %T: %w", v, err)
	}
	return out, nil
}

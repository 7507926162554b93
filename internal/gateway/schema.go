// internal/gateway/schema.go
package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// setupSchema builds the JSON schema a setup payload must satisfy. The
// index_params shape depends on the index kind, so the schema is
// assembled per kind rather than kept as one static document.
func setupSchema(kind IndexKind) map[string]any {
	var paramsSchema map[string]any
	switch kind {
	case IndexIVF:
		paramsSchema = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"n_lists":    map[string]any{"type": "integer", "minimum": 1},
				"iterations": map[string]any{"type": "integer", "minimum": 1},
			},
			"additionalProperties": false,
		}
	default:
		paramsSchema = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ef": map[string]any{"type": "integer", "minimum": 1},
			},
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"index":                map[string]any{"type": "string", "enum": []string{string(IndexHNSW), string(IndexIVF)}},
			"dimension":            map[string]any{"type": "integer", "minimum": 1},
			"chunk_size":           map[string]any{"type": "integer", "minimum": 1},
			"overlap":              map[string]any{"type": "integer", "minimum": 0},
			"generator_max_tokens": map[string]any{"type": "integer", "minimum": 1},
			"index_params":         paramsSchema,
		},
		"required": []string{"index", "dimension", "chunk_size", "overlap"},
	}
}

// validateSetupPayload validates the serialized setup body against the
// per-kind schema and collapses any violations into a single error.
func validateSetupPayload(kind IndexKind, body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(setupSchema(kind))
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("setup payload validation failed: %s", strings.Join(errs, ", "))
}

// marshalSetup serializes the request after defaults are applied so the
// schema sees the exact bytes that would hit the wire.
func marshalSetup(req SetupRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := validateSetupPayload(req.Index, body); err != nil {
		return nil, err
	}
	return body, nil
}

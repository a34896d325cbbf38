// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package menu

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds the compiled schema to avoid recompilation.
var schemaCache *jschema.Schema

// GenerateSchema generates a JSON Schema from the Item struct.
func GenerateSchema() ([]byte, error) {
	// Item is self-recursive (cascades), so definitions stay referenced
	// instead of inlined.
	r := jsonschema.Reflector{}
	schema := r.Reflect(&Item{})

	schema.ID = jsonschema.ID(GetSchemaID())
	schema.Title = "Hausbuch Menu Item"
	schema.Description = "Schema for menu item descriptors returned by extension units"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ValidateDescriptor validates an untyped menu item descriptor (as decoded
// from an extension runtime, e.g. a Lua table) against the Item schema.
func ValidateDescriptor(v any) error {
	sch, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns the cached compiled schema or compiles it.
func getCompiledSchema() (*jschema.Schema, error) {
	if schemaCache != nil {
		return schemaCache, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	schemaCache = sch
	return sch, nil
}

// ResetSchemaCache clears the cached schema. Used for testing.
func ResetSchemaCache() {
	schemaCache = nil
}

// GetSchemaID returns the schema $id for menu item descriptors.
func GetSchemaID() string {
	return "https://hausbuch.dev/schemas/menu-item.schema.json"
}

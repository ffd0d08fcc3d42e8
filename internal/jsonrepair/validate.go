package jsonrepair

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemasOnce sync.Once
	schemas     map[Kind]*jsonschema.Schema
	schemasErr  error
)

// recordSchema builds the JSON schema for an array of normalized records.
// The label field must be non-empty; every canonical field must be a string.
func recordSchema(kind Kind) string {
	names := Fields(kind)
	props := make([]string, len(names))
	for i, n := range names {
		if i == 0 {
			props[i] = fmt.Sprintf(`%q: {"type": "string", "minLength": 1}`, n)
		} else {
			props[i] = fmt.Sprintf(`%q: {"type": "string"}`, n)
		}
	}
	return fmt.Sprintf(`{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"properties": {%s},
			"required": [%q]
		}
	}`, strings.Join(props, ", "), names[0])
}

func compileSchemas() {
	schemas = make(map[Kind]*jsonschema.Schema, len(kindFields))
	for _, kind := range Kinds() {
		url := fmt.Sprintf("%s_records.json", kind)
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, strings.NewReader(recordSchema(kind))); err != nil {
			schemasErr = fmt.Errorf("failed to load %s schema: %w", kind, err)
			return
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			schemasErr = fmt.Errorf("failed to compile %s schema: %w", kind, err)
			return
		}
		schemas[kind] = schema
	}
}

// Validate checks normalized records against the schema of kind.
func Validate(kind Kind, records []Record) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("unknown record kind: %q", kind)
	}

	doc := make([]any, len(records))
	for i, rec := range records {
		obj := make(map[string]any, len(rec))
		for k, v := range rec {
			obj[k] = v
		}
		doc[i] = obj
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: records do not match %s schema: %v", ErrMalformedOutput, kind, err)
	}
	return nil
}

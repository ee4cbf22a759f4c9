// Package validate checks vector documents against the embedded JSON
// Schema. YAML and TOML documents are validated through their JSON
// projection, so one schema covers every wire format.
package validate

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

//go:embed vector_v1.schema.json
var vectorSchemaJSON []byte

var (
	vectorSchemaOnce sync.Once
	vectorSchema     *jsonschema.Schema
	vectorSchemaErr  error
)

// VectorSchema compiles the embedded vector document schema once per
// process.
func VectorSchema() (*jsonschema.Schema, error) {
	vectorSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		vectorSchema, vectorSchemaErr = compiler.Compile(vectorSchemaJSON)
		if vectorSchemaErr != nil {
			vectorSchemaErr = fmt.Errorf("compile vector schema: %w", vectorSchemaErr)
		}
	})
	return vectorSchema, vectorSchemaErr
}

// VectorJSON validates raw JSON bytes against the vector document schema.
func VectorJSON(data []byte) error {
	schema, err := VectorSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// VectorDocument validates a decoded document through its JSON projection.
func VectorDocument(document vector.Document) error {
	encoded, err := codec.Encode(document, codec.FormatJSON)
	if err != nil {
		return fmt.Errorf("project document to json: %w", err)
	}
	return VectorJSON(encoded)
}

// VectorFile reads and validates one vector file. JSON files are validated
// as-is; YAML and TOML files are decoded first and validated through their
// JSON projection.
func VectorFile(path string, format codec.Format) error {
	// #nosec G304 -- callers validate their own vector files by explicit path.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read vector file: %w", err)
	}
	if format == codec.FormatJSON {
		return VectorJSON(data)
	}
	document, err := codec.Decode(data, format)
	if err != nil {
		return err
	}
	return VectorDocument(document)
}

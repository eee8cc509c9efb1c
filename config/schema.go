package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	jsonschemav5 "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "kakapo.json"

// baseConfig mirrors Config without the inline Extensions map so the
// reflected schema only describes the known sections.
type baseConfig struct {
	Version string        `yaml:"version" jsonschema:"description=Configuration version (e.g. '1')"`
	Catalog CatalogConfig `yaml:"catalog,omitempty" jsonschema:"description=Where the sound catalog is fetched from"`
	Storage StorageConfig `yaml:"storage,omitempty" jsonschema:"description=Where the sound collection is cached"`
	Server  ServerConfig  `yaml:"server,omitempty" jsonschema:"description=Daemon settings"`
}

// GenerateSchema reflects the JSON Schema for kakapo.yml. Unknown top-level
// sections are allowed since they hold extension configuration.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&baseConfig{})
	schema.Title = "Kakapo Configuration"
	schema.Description = "Schema for kakapo.yml and kakapo.toml."
	schema.AdditionalProperties = nil

	return json.MarshalIndent(schema, "", "  ")
}

// SchemaValidator validates configuration against the generated JSON Schema.
type SchemaValidator struct {
	schema *jsonschemav5.Schema
}

// NewSchemaValidator compiles the generated schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := jsonschemav5.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate validates configuration data against the schema.
// configData can be any value that marshals to JSON.
func (v *SchemaValidator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschemav5.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschemav5.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

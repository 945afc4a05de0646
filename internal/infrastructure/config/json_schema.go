package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

const schemaFileName = "config.schema.json"

// Schema returns the JSON schema describing config.toml.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{FieldNameTag: "toml"}
	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/bnema/lexgrid/config.schema.json"
	schema.Title = "lexgrid configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes config.schema.json next to the config file.
func GenerateSchemaFile(configDir string) error {
	data, err := Schema()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(configDir, schemaFileName), data, filePerm); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}

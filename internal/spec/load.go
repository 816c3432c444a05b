package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the JSON overrides file. Derived-field functions
// are deliberately not configurable from data.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "schema": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "defaults": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "patterns": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["field", "pattern"],
        "additionalProperties": false,
        "properties": {
          "field": {"type": "string", "minLength": 1},
          "pattern": {"type": "string", "minLength": 1}
        }
      }
    },
    "fallback_field": {"type": "string", "minLength": 1},
    "firstline_is_password": {"type": "boolean"}
  }
}`

type fileConfig struct {
	Schema              []string          `json:"schema"`
	Defaults            map[string]string `json:"defaults"`
	Patterns            []filePattern     `json:"patterns"`
	FallbackField       string            `json:"fallback_field"`
	FirstLineIsPassword *bool             `json:"firstline_is_password"`
}

type filePattern struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
}

// Load reads a JSON overrides file, validates it against the embedded JSON
// Schema, and layers it over the default specification. Any failure is a
// configuration-time error and should abort the run.
func Load(path string) (*FieldSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec config: %w", err)
	}
	if err := validateConfig(data); err != nil {
		return nil, fmt.Errorf("spec config %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("unmarshal spec config: %w", err)
	}

	s := Default()
	if len(fc.Schema) > 0 {
		s.Schema = fc.Schema
	}
	if fc.Defaults != nil {
		s.Defaults = fc.Defaults
	}
	if len(fc.Patterns) > 0 {
		s.Patterns = s.Patterns[:0]
		for _, p := range fc.Patterns {
			re, err := CompilePattern(normalizeRaw(p.Pattern))
			if err != nil {
				return nil, fmt.Errorf("spec config %s: field %q: %w", path, p.Field, err)
			}
			s.Patterns = append(s.Patterns, FieldPattern{Field: p.Field, Re: re})
		}
	}
	if fc.FallbackField != "" {
		s.FallbackField = fc.FallbackField
	}
	if fc.FirstLineIsPassword != nil {
		s.FirstLineIsPassword = *fc.FirstLineIsPassword
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// validateConfig validates raw JSON against configSchema.
func validateConfig(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("spec.json", bytes.NewReader([]byte(configSchema))); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("spec.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}

// normalizeRaw tolerates patterns written with an explicit leading anchor;
// CompilePattern adds its own.
func normalizeRaw(raw string) string {
	return strings.TrimPrefix(raw, "^")
}

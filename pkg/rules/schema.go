package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ruleweave/ruleweave/pkg/errors"
)

//go:embed schema/rule.schema.json
var ruleSchemaData []byte

const ruleSchemaID = "https://github.com/ruleweave/ruleweave/pkg/rules/schema/rule.schema.json"

// Schema validates rule frontmatter against the embedded rule schema
type Schema struct {
	compiled *jsonschema.Schema
}

// NewSchema compiles the embedded rule schema
func NewSchema() (*Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(ruleSchemaData))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "unmarshal rule schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(ruleSchemaID, doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "add rule schema resource")
	}

	compiled, err := compiler.Compile(ruleSchemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "compile rule schema")
	}

	return &Schema{compiled: compiled}, nil
}

// MustSchema compiles the embedded schema and panics on failure.
// The schema is embedded, so a compile failure is a programming error.
func MustSchema() *Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks decoded frontmatter against the rule schema.
// Returns a SCHEMA coded error describing the first violation.
func (s *Schema) Validate(frontmatter map[string]interface{}) error {
	doc, err := toJSONValue(frontmatter)
	if err != nil {
		return errors.Wrap(err, errors.ErrSchema, "rule frontmatter is not schema-checkable")
	}

	if err := s.compiled.Validate(doc); err != nil {
		return errors.Wrap(err, errors.ErrSchema, "rule failed schema validation")
	}

	return nil
}

// toJSONValue converts YAML-decoded data into the canonical JSON value
// types the schema validator expects. YAML timestamps become RFC 3339
// strings on the way through.
func toJSONValue(v interface{}) (interface{}, error) {
	data, err := json.Marshal(normalize(v))
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

// Package validation checks documents against JSON schemas.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Result is a structural check outcome. Errors is never nil.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Schema is a compiled JSON schema.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// CompileGo compiles a schema held as a decoded Go value, such as the
// inputSchema of a registry activity.
func CompileGo(schema interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is like Compile but panics on an invalid schema. Use it for
// schemas compiled into the binary.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a Go value. The value is encoded as JSON first, so nil
// slices and maps are seen as null.
func (s *Schema) Validate(doc interface{}) Result {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

// ValidateJSON checks a raw JSON document.
func (s *Schema) ValidateJSON(raw string) Result {
	return s.validate(gojsonschema.NewStringLoader(raw))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) Result {
	res, err := s.schema.Validate(doc)
	if err != nil {
		return Result{Valid: false, Errors: []string{fmt.Sprintf("document could not be read: %v", err)}}
	}

	errs := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		errs = append(errs, desc.String())
	}
	return Result{Valid: res.Valid(), Errors: errs}
}

// Package validation checks raw job variables against JSON schemas before they
// are decoded into worker inputs.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Result is the outcome of a schema check.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validate checks document against schema. An error is returned only when
// the schema itself cannot be compiled.
func Validate(schema map[string]interface{}, document interface{}) (*Result, error) {
	if len(schema) == 0 {
		return &Result{Valid: true}, nil
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &Result{Valid: res.Valid()}
	for _, desc := range res.Errors() {
		field := desc.Field()
		// required errors are reported against the parent object
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = prop
		}
		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// ErrorMessages renders the errors as "field: message", joined by "; ".
func (r *Result) ErrorMessages() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(msgs, "; ")
}

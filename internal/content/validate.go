package content

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ValidationError lists every schema violation found in a content file
type ValidationError struct {
	File   string
	Errors []FieldError
}

// FieldError is a single violation at a JSON path
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: validation failed:", ve.File)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// validateSchema checks document against the named embedded schema
func validateSchema(schemaName, file string, document []byte) error {
	schema, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", schemaName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{File: file}
	for _, e := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return ve
}

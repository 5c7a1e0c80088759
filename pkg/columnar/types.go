package columnar

import (
	"strings"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Row is one record in row form.
type Row map[string]float64

// Field is a named column and its element kind.
type Field struct {
	Name string          `json:"name" yaml:"name"`
	Kind typedarray.Kind `json:"kind" yaml:"kind"`
}

// Schema lists the fields of a column collection in iteration order.
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks that every field has a unique non-empty name and a
// typed kind.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return errors.Newf(errors.ErrorTypeValidation, "field %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Kind.IsTyped() {
			return errors.Newf(errors.ErrorTypeUnsupportedInputKind,
				"field %q must have a typed kind, got %s", f.Name, f.Kind).
				WithDetail("field", f.Name)
		}
	}
	return nil
}

// ParseSchema parses "name:kind" pairs separated by commas, for example
// "x:int32,y:float64".
func ParseSchema(s string) (Schema, error) {
	var schema Schema
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, kindName, ok := strings.Cut(part, ":")
		if !ok {
			return Schema{}, errors.Newf(errors.ErrorTypeValidation, "field %q must be written as name:kind", part)
		}
		kind, err := typedarray.ParseKind(kindName)
		if err != nil {
			return Schema{}, err
		}
		schema.Fields = append(schema.Fields, Field{Name: strings.TrimSpace(name), Kind: kind})
	}
	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

// String formats the schema in the form accepted by ParseSchema.
func (s Schema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ":" + f.Kind.String()
	}
	return strings.Join(parts, ",")
}

// Package forms declares the console forms as schemas of field validators,
// checked synchronously before anything is submitted.
package forms

import (
	"sort"
	"strings"
)

type Field struct {
	Name       string
	Label      string
	Validators []Validator
}

// Check returns the first validation failure for value, or nil.
func (f Field) Check(value string) error {
	for _, validate := range f.Validators {
		if err := validate(value); err != nil {
			return err
		}
	}
	return nil
}

type Schema struct {
	fields []Field
}

func NewSchema(fields ...Field) Schema {
	return Schema{fields: fields}
}

func (s Schema) Fields() []Field {
	return s.fields
}

func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Validator returns the combined check for name in the func(string) error
// shape huh inputs expect. Unknown fields always pass.
func (s Schema) Validator(name string) func(string) error {
	field, ok := s.Field(name)
	if !ok {
		return func(string) error { return nil }
	}
	return field.Check
}

// Validate checks every field of the schema against values. Missing values
// are validated as empty strings.
func (s Schema) Validate(values map[string]string) Errors {
	errs := Errors{}
	for _, field := range s.fields {
		if err := field.Check(values[field.Name]); err != nil {
			errs[field.Name] = err.Error()
		}
	}
	return errs
}

// Errors maps a field name to its first failure message.
type Errors map[string]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when there are no failures.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e[name])
	}
	return strings.Join(parts, "; ")
}

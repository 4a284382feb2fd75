package schema

import (
	"fmt"
	"regexp"
	"sort"
)

// Type is the base type a field's value must coerce to.
type Type int

const (
	// Any accepts every value, including nil.
	Any Type = iota
	// String accepts string values only.
	String
	// Int accepts all Go integer kinds plus floats with an integral value
	// (the usual result of decoding JSON numbers). Coerced to int64.
	Int
	// Float accepts all Go numeric kinds. Coerced to float64.
	Float
	// Bool accepts bool values only.
	Bool
	// Time accepts time.Time values and RFC 3339 strings.
	// Coerced to time.Time.
	Time
)

// String returns the lower-case name of the type.
func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return "any"
	}
}

// Field declares the constraints for one named attribute.
//
// The zero value is a valid declaration: an optional field of type [Any]
// with no constraints.
type Field struct {
	// Type is the base type the value must coerce to.
	Type Type

	// Required makes the field mandatory: validation fails when the
	// attribute is absent and no Default is declared.
	Required bool

	// Nullable permits an explicit nil value regardless of Type.
	Nullable bool

	// Default is applied when the attribute is absent. It may be a plain
	// value or a func() any evaluated per validation (for timestamps,
	// generated identifiers, and similar per-record values).
	Default any

	// Enum restricts the coerced value to one of the listed values.
	Enum []any

	// Min and Max bound numeric values (inclusive).
	Min, Max *float64

	// MinLength and MaxLength bound string lengths (inclusive).
	MinLength, MaxLength *int

	// Pattern is a regular expression string values must match.
	// Compiled once by [New]; an invalid pattern is a construction error.
	Pattern string
}

// field is the internal, fully-prepared form of a declaration.
type field struct {
	Field
	re *regexp.Regexp
}

// Schema is an immutable set of named field constraints.
//
// The zero value is an empty schema that accepts only an empty attribute
// map. Schemas are safe for concurrent use.
type Schema struct {
	fields map[string]field
}

// New builds a Schema from a map of field declarations. Pattern constraints
// are compiled here; an invalid pattern makes construction fail.
func New(fields map[string]Field) (Schema, error) {
	prepared := make(map[string]field, len(fields))
	for name, f := range fields {
		if name == "" {
			return Schema{}, fmt.Errorf("%w: field name must not be empty", ErrInvalidField)
		}
		spec := field{Field: f}
		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return Schema{}, fmt.Errorf("%w: field %q pattern: %v", ErrInvalidField, name, err)
			}
			spec.re = re
		}
		prepared[name] = spec
	}
	return Schema{fields: prepared}, nil
}

// MustNew is like [New] but panics on error. Intended for package-level
// schema declarations where the field set is a compile-time constant.
func MustNew(fields map[string]Field) Schema {
	s, err := New(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Has reports whether the schema declares a field with the given name.
func (s Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Field returns the declaration for name and whether it exists.
func (s Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f.Field, ok
}

// Names returns the declared field names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declared fields.
func (s Schema) Len() int { return len(s.fields) }

// Relax returns a copy of the schema in which the named fields are no
// longer required. Names the schema does not declare are ignored. The
// receiver is left untouched.
func (s Schema) Relax(names ...string) Schema {
	out := s.clone()
	for _, name := range names {
		if f, ok := out.fields[name]; ok {
			f.Required = false
			out.fields[name] = f
		}
	}
	return out
}

// WithField returns a copy of the schema with the given field added or
// replaced. The field's Pattern must already be valid; WithField panics on
// an invalid pattern since it is only reachable through programmer error.
func (s Schema) WithField(name string, f Field) Schema {
	spec := field{Field: f}
	if f.Pattern != "" {
		spec.re = regexp.MustCompile(f.Pattern)
	}
	out := s.clone()
	out.fields[name] = spec
	return out
}

func (s Schema) clone() Schema {
	fields := make(map[string]field, len(s.fields))
	for name, f := range s.fields {
		fields[name] = f
	}
	return Schema{fields: fields}
}

// Package schema provides declarative, immutable validation schemas for
// map-shaped records.
//
// # Architecture
//
// A [Schema] is an immutable mapping from field name to [Field] constraint.
// Once built with [New] it is never mutated: derived schemas are produced by
// the pure functions [Schema.Relax] (make a set of fields non-required, used
// for partial updates) and [Schema.WithField] (add or replace one field).
// Immutability makes a single schema safe to share between every instance of
// a model class and between goroutines without locking.
//
// # Quick start
//
//	s, err := schema.New(map[string]schema.Field{
//	    "firstName": {Type: schema.String, Required: true,
//	        Enum: []any{"hello", "goodbye", "yo"}},
//	    "lastName": {Type: schema.String},
//	})
//	if err != nil { log.Fatal(err) }
//
//	clean, err := s.Validate(map[string]any{"firstName": "hello"})
//
// Validate returns a fresh, defaulted and type-coerced attribute map; the
// input map is never modified. On failure it returns a [*ValidationError]
// listing every violated field.
//
// # Partial updates
//
// A partial update supplies only a subset of a record's fields. Validating
// that subset against the full schema would fail on every untouched required
// field, so the caller relaxes the schema first:
//
//	partial := s.Relax("firstName") // firstName no longer required
//	clean, err := partial.Validate(payload)
package schema

package model

import (
	"fmt"

	"github.com/hasbyte1/go-modelbase/hashing"
	"github.com/hasbyte1/go-modelbase/schema"
	"github.com/hasbyte1/go-modelbase/store"
)

// Field names every schema gains implicitly when the model class does not
// declare them itself.
const (
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"

	// DefaultDigestColumn is where secure-password models store the bcrypt
	// digest unless [PasswordColumn] names another column.
	DefaultDigestColumn = "password_digest"
)

// PasswordConfig is the tagged secure-password variant of a model class:
// disabled, enabled with the default digest column, or enabled with a
// custom column. Construct with [NoPassword], [Password], or
// [PasswordColumn]; the zero value is [NoPassword].
type PasswordConfig struct {
	enabled bool
	column  string
}

// NoPassword disables secure-password behavior (the default).
func NoPassword() PasswordConfig { return PasswordConfig{} }

// Password enables secure-password behavior with [DefaultDigestColumn].
func Password() PasswordConfig {
	return PasswordConfig{enabled: true, column: DefaultDigestColumn}
}

// PasswordColumn enables secure-password behavior with a custom digest
// column name.
func PasswordColumn(name string) PasswordConfig {
	return PasswordConfig{enabled: true, column: name}
}

// Enabled reports whether secure-password behavior is on.
func (p PasswordConfig) Enabled() bool { return p.enabled }

// Column returns the digest column name; empty when disabled.
func (p PasswordConfig) Column() string { return p.column }

// Definition is the static, per-model-class configuration. It is read once
// by [NewCollection] and never re-inspected per save.
type Definition struct {
	// Table is the table or collection name. Required.
	Table string

	// Schema declares the validated fields. The zero value is legal for
	// models that only need the implicit id/timestamp fields.
	Schema schema.Schema

	// SecurePassword selects the secure-password variant.
	SecurePassword PasswordConfig

	// BcryptCost overrides the bcrypt work factor.
	// Zero means [hashing.DefaultBcryptCost] (12).
	BcryptCost int

	// Hasher replaces the built-in bcrypt hasher. When set, BcryptCost is
	// ignored.
	Hasher hashing.Hasher
}

// Collection is one model class bound to a storage backend. It is immutable
// after construction and safe for concurrent use; distinct model instances
// may be saved in parallel.
type Collection struct {
	def    Definition
	schema schema.Schema // def.Schema plus the implicit fields
	hasher hashing.Hasher
	store  store.Store
}

// NewCollection validates the definition, augments the schema with the
// implicitly-optional fields (id, created_at, updated_at, and the digest
// column for secure-password classes), and binds the class to st.
//
// All wiring problems are reported here as [ErrConfiguration]; nothing is
// re-checked at save time.
func NewCollection(def Definition, st store.Store) (*Collection, error) {
	if def.Table == "" {
		return nil, fmt.Errorf("%w: table name is required", ErrConfiguration)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: store is required", ErrConfiguration)
	}
	if def.SecurePassword.Enabled() && def.SecurePassword.Column() == "" {
		return nil, fmt.Errorf("%w: digest column name must not be empty", ErrConfiguration)
	}

	hasher := def.Hasher
	if hasher == nil {
		cost := def.BcryptCost
		if cost == 0 {
			cost = hashing.DefaultBcryptCost
		}
		var err error
		hasher, err = hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: cost})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}

	s := def.Schema
	for name, f := range implicitFields(def) {
		if !s.Has(name) {
			s = s.WithField(name, f)
		}
	}

	return &Collection{def: def, schema: s, hasher: hasher, store: st}, nil
}

// Table returns the table or collection name.
func (c *Collection) Table() string { return c.def.Table }

// Schema returns the augmented schema the collection validates against.
func (c *Collection) Schema() schema.Schema { return c.schema }

func implicitFields(def Definition) map[string]schema.Field {
	fields := map[string]schema.Field{
		store.IDField:  {Type: schema.String},
		CreatedAtField: {Type: schema.Time},
		UpdatedAtField: {Type: schema.Time},
	}
	if def.SecurePassword.Enabled() {
		fields[def.SecurePassword.Column()] = schema.Field{Type: schema.String}
	}
	return fields
}

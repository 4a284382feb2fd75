package model

import (
	"fmt"

	"github.com/hasbyte1/go-modelbase/store"
)

// PasswordField is the virtual field name secure-password models expose.
// Setting it stages a plaintext for hashing; reading it always reports
// absent. The plaintext never enters the persisted attribute set.
const PasswordField = "password"

// Model is one record of a collection: an attribute map, a dirty-field set
// for partial updates, and, on secure-password classes, a staged write-only
// password slot.
//
// A Model is not safe for concurrent use; callers serialize operations on
// one instance. Distinct instances are fully independent.
type Model struct {
	coll  *Collection
	attrs store.Record
	dirty map[string]struct{}
	isNew bool

	// staged plaintext password; nil means absent (distinct from "").
	stagedPassword *string
}

// New creates an unsaved model instance with the given initial attributes.
// Attributes are applied through [Model.Set], so a "password" key on a
// secure-password class is staged, not stored.
func (c *Collection) New(attrs store.Record) *Model {
	m := &Model{
		coll:  c,
		attrs: make(store.Record, len(attrs)),
		dirty: make(map[string]struct{}, len(attrs)),
		isNew: true,
	}
	for name, value := range attrs {
		m.Set(name, value)
	}
	return m
}

// forge wraps a stored record in a model instance without marking anything
// dirty. Used for records loaded from, or targeted at, the store.
func (c *Collection) forge(rec store.Record, isNew bool) *Model {
	return &Model{
		coll:  c,
		attrs: cloneRecord(rec),
		dirty: make(map[string]struct{}),
		isNew: isNew,
	}
}

// Get returns the named attribute and whether it is present. The virtual
// password field always reads as absent; neither a staged plaintext nor the
// stored digest is ever exposed under that name.
func (m *Model) Get(name string) (any, bool) {
	if m.isPasswordField(name) {
		return nil, false
	}
	v, ok := m.attrs[name]
	return v, ok
}

// Set assigns the named attribute and marks it dirty. On a secure-password
// class, setting the virtual password field stages the value for hashing
// instead; nil clears the staging, and other non-string values are staged
// via their string form.
func (m *Model) Set(name string, value any) {
	if m.isPasswordField(name) {
		if value == nil {
			m.stagedPassword = nil
			return
		}
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprint(value)
		}
		m.stagedPassword = &s
		return
	}
	m.attrs[name] = value
	m.dirty[name] = struct{}{}
}

// Unset removes the named attribute from the in-memory record. For the
// virtual password field it clears the staged value.
func (m *Model) Unset(name string) {
	if m.isPasswordField(name) {
		m.stagedPassword = nil
		return
	}
	delete(m.attrs, name)
	delete(m.dirty, name)
}

// ID returns the record identifier, or "" when the record has none yet.
func (m *Model) ID() string {
	id, _ := m.attrs[store.IDField].(string)
	return id
}

// IsNew reports whether the record has never been persisted.
func (m *Model) IsNew() bool { return m.isNew }

// Attributes returns a copy of the current attribute map.
func (m *Model) Attributes() store.Record { return cloneRecord(m.attrs) }

// Table returns the table or collection name, for error reporting.
func (m *Model) Table() string { return m.coll.def.Table }

func (m *Model) isPasswordField(name string) bool {
	return name == PasswordField && m.coll.def.SecurePassword.Enabled()
}

// dirtyAttrs returns a copy of the attributes touched since the last
// successful save.
func (m *Model) dirtyAttrs() store.Record {
	out := make(store.Record, len(m.dirty))
	for name := range m.dirty {
		out[name] = m.attrs[name]
	}
	return out
}

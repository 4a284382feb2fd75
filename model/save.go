package model

import (
	"context"
	"errors"
	"time"

	"github.com/hasbyte1/go-modelbase/hashing"
	"github.com/hasbyte1/go-modelbase/schema"
	"github.com/hasbyte1/go-modelbase/store"
)

// Method is the operation kind of one save call.
type Method int

const (
	// MethodAuto resolves to [MethodInsert] for new records and
	// [MethodPatch] otherwise.
	MethodAuto Method = iota

	// MethodInsert persists the record as a new row/document.
	MethodInsert

	// MethodUpdate writes the record's entire attribute set to an existing
	// row/document.
	MethodUpdate

	// MethodPatch writes only the attributes touched since the last save.
	MethodPatch
)

// SaveOptions configures one save call. The zero value is [MethodAuto].
type SaveOptions struct {
	Method Method
}

// Save runs the pre-persist pipeline (timestamps, password hashing, schema
// validation, in that order) and writes the validated result through the
// collection's store.
//
// Validation runs in full mode only when the record is new and the method
// is not explicitly update/patch; every other save validates just the
// attributes being written, with the untouched schema fields relaxed. An
// explicit patch/update on a new record therefore gets partial validation,
// which is what upsert-style calls with caller-chosen identifiers rely on.
//
// On failure nothing is written and the model's attributes are exactly as
// they were before the call. On success the validated attribute set is
// committed to the model and then persisted. The staged password is cleared
// in every case, so retrying a failed save will not hash again unless the
// password is re-supplied.
func (m *Model) Save(ctx context.Context, opts SaveOptions) error {
	staged := m.stagedPassword
	m.stagedPassword = nil

	method := opts.Method
	if method == MethodAuto {
		if m.isNew {
			method = MethodInsert
		} else {
			method = MethodPatch
		}
	}
	full := m.isNew && method == MethodInsert

	if method != MethodInsert && m.ID() == "" {
		return ErrMissingID
	}

	// Attributes being written in this call.
	var payload store.Record
	if method == MethodPatch {
		payload = m.dirtyAttrs()
	} else {
		payload = cloneRecord(m.attrs)
	}

	now := time.Now().UTC()
	if full {
		if _, ok := payload[CreatedAtField]; !ok {
			payload[CreatedAtField] = now
		}
	}
	payload[UpdatedAtField] = now

	if err := m.hashStagedPassword(ctx, staged, payload); err != nil {
		return err
	}

	validated, err := m.validate(payload, full)
	if err != nil {
		return err
	}

	// All interceptors passed: commit the canonical values to the model,
	// then hand them to the store.
	if full {
		m.attrs = validated
	} else {
		for name, value := range validated {
			m.attrs[name] = value
		}
	}

	switch method {
	case MethodInsert:
		id, err := m.coll.store.Insert(ctx, m.coll.def.Table, validated)
		if err != nil {
			return err
		}
		m.attrs[store.IDField] = id
		m.isNew = false
	default:
		delete(validated, store.IDField)
		if err := m.coll.store.Update(ctx, m.coll.def.Table, m.ID(), validated); err != nil {
			return err
		}
	}

	m.dirty = make(map[string]struct{})
	return nil
}

// validate checks payload in full or partial mode and returns the fresh
// validated attribute set. Validation errors carry the table name.
//
// In partial mode only the supplied fields come back: defaults the
// validator applied for absent fields are stripped, so a patch never
// rewrites stored values the caller did not touch.
func (m *Model) validate(payload store.Record, full bool) (store.Record, error) {
	s := m.coll.schema
	if !full {
		s = s.Relax(absentFields(s.Names(), payload)...)
	}
	validated, err := s.Validate(payload)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			verr.Table = m.coll.def.Table
		}
		return nil, err
	}
	if !full {
		for name := range validated {
			if _, ok := payload[name]; !ok {
				delete(validated, name)
			}
		}
	}
	return validated, nil
}

// hashStagedPassword turns the staged plaintext into a digest in payload.
//
// An absent staged value leaves the digest column untouched. An empty
// string is ignored too; no digest is ever produced for empty input. A
// whitespace-only string is a real password and gets hashed.
func (m *Model) hashStagedPassword(ctx context.Context, staged *string, payload store.Record) error {
	if !m.coll.def.SecurePassword.Enabled() || staged == nil || *staged == "" {
		return nil
	}
	digest, err := hashPassword(ctx, m.coll.hasher, *staged)
	if err != nil {
		return err
	}
	payload[m.coll.def.SecurePassword.Column()] = digest
	return nil
}

// hashPassword runs the hasher off the calling goroutine. Hashing is the
// one slow step of a save and the work factor puts it in the hundreds of
// milliseconds, so the save must stay responsive to ctx cancellation.
func hashPassword(ctx context.Context, h hashing.Hasher, plain string) (string, error) {
	type outcome struct {
		digest string
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		digest, err := h.Make(plain)
		ch <- outcome{digest: digest, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case out := <-ch:
		return out.digest, out.err
	}
}

package model

import (
	"context"
	"errors"

	"github.com/hasbyte1/go-modelbase/store"
)

// UpdateOptions configures [Collection.Update]. The zero value (plus an ID)
// gives the default behavior: patch semantics, missing target is an error.
type UpdateOptions struct {
	// ID selects the target record. Required.
	ID string

	// Replace writes the full attribute set instead of patching only the
	// supplied fields.
	Replace bool

	// AllowMissing makes a missing target return (nil, nil) instead of
	// [store.ErrNotFound].
	AllowMissing bool
}

// DestroyOptions configures [Collection.Destroy]. The zero value (plus an
// ID) makes a missing target an error.
type DestroyOptions struct {
	// ID selects the target record. Required.
	ID string

	// AllowMissing makes a missing target a no-op instead of
	// [store.ErrNotFound].
	AllowMissing bool
}

// FindOrCreateOptions configures [Collection.FindOrCreate].
type FindOrCreateOptions struct {
	// Defaults is merged under the search data on the insert path only; a
	// found record is returned as-is.
	Defaults store.Record
}

// FindAll returns every record matching filter, wrapped in model instances.
func (c *Collection) FindAll(ctx context.Context, filter store.Record, opts store.FindOptions) ([]*Model, error) {
	recs, err := c.store.Find(ctx, c.def.Table, filter, opts)
	if err != nil {
		return nil, err
	}
	models := make([]*Model, len(recs))
	for i, rec := range recs {
		models[i] = c.forge(rec, false)
	}
	return models, nil
}

// FindByID returns the record with the given identifier, or
// [store.ErrNotFound].
func (c *Collection) FindByID(ctx context.Context, id string) (*Model, error) {
	rec, err := c.store.Get(ctx, c.def.Table, id)
	if err != nil {
		return nil, err
	}
	return c.forge(rec, false), nil
}

// FindOne returns the first record matching query, or [store.ErrNotFound].
// Ordering from opts applies before the first match is taken.
func (c *Collection) FindOne(ctx context.Context, query store.Record, opts store.FindOptions) (*Model, error) {
	opts.Limit = 1
	recs, err := c.store.Find(ctx, c.def.Table, query, opts)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, store.ErrNotFound
	}
	return c.forge(recs[0], false), nil
}

// Create validates data as a complete new record and inserts it.
func (c *Collection) Create(ctx context.Context, data store.Record) (*Model, error) {
	m := c.New(data)
	if err := m.Save(ctx, SaveOptions{Method: MethodInsert}); err != nil {
		return nil, err
	}
	return m, nil
}

// Update writes data to the record selected by opts.ID. By default only
// the supplied fields are patched and a missing target is an error; see
// [UpdateOptions].
func (c *Collection) Update(ctx context.Context, data store.Record, opts UpdateOptions) (*Model, error) {
	if opts.ID == "" {
		return nil, ErrMissingID
	}

	m := c.forge(store.Record{store.IDField: opts.ID}, false)
	for name, value := range data {
		m.Set(name, value)
	}

	method := MethodPatch
	if opts.Replace {
		method = MethodUpdate
	}
	if err := m.Save(ctx, SaveOptions{Method: method}); err != nil {
		if opts.AllowMissing && errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Destroy deletes the record selected by opts.ID.
func (c *Collection) Destroy(ctx context.Context, opts DestroyOptions) error {
	if opts.ID == "" {
		return ErrMissingID
	}
	err := c.store.Delete(ctx, c.def.Table, opts.ID)
	if err != nil && opts.AllowMissing && errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// FindOrCreate returns the first record matching data, inserting
// data merged over opts.Defaults when none exists.
func (c *Collection) FindOrCreate(ctx context.Context, data store.Record, opts FindOrCreateOptions) (*Model, error) {
	m, err := c.FindOne(ctx, data, store.FindOptions{})
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return c.Create(ctx, mergeRecords(opts.Defaults, data))
}

// Upsert selects by selectData and patches the found record with
// updateData, keeping its identifier. When nothing matches, it inserts the
// merge of both, with updateData winning on conflicting fields.
func (c *Collection) Upsert(ctx context.Context, selectData, updateData store.Record) (*Model, error) {
	existing, err := c.FindOne(ctx, selectData, store.FindOptions{})
	if err == nil {
		return c.Update(ctx, updateData, UpdateOptions{ID: existing.ID()})
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return c.Create(ctx, mergeRecords(selectData, updateData))
}

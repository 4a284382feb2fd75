// Package memory provides a thread-safe in-memory implementation of
// [store.Store].
//
// It is intended for tests and prototyping. Records are deep-copied on the
// way in and out, so callers can never mutate stored state through a map
// they still hold a reference to.
package memory

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hasbyte1/go-modelbase/store"
)

// Store is a thread-safe in-memory [store.Store].
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Record // collection → id → record
}

// New creates an empty Store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]store.Record)}
}

// Find returns the records matching filter, sorted and windowed per opts.
func (s *Store) Find(_ context.Context, collection string, filter store.Record, opts store.FindOptions) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]store.Record, 0)
	for _, rec := range s.collections[collection] {
		if matches(rec, filter) {
			matched = append(matched, clone(rec))
		}
	}

	sortRecords(matched, opts.OrderBy)

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []store.Record{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Get returns the record with the given id, or [store.ErrNotFound].
func (s *Store) Get(_ context.Context, collection, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(rec), nil
}

// Insert stores a new record, generating a UUID identifier when attrs does
// not carry one.
func (s *Store) Insert(_ context.Context, collection string, attrs store.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(attrs)
	id, _ := rec[store.IDField].(string)
	if id == "" {
		id = uuid.NewString()
		rec[store.IDField] = id
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]store.Record)
	}
	s.collections[collection][id] = rec
	return id, nil
}

// Update patches the record with the given id, writing only the fields
// present in attrs.
func (s *Store) Update(_ context.Context, collection, id string, attrs store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	for name, value := range attrs {
		if name == store.IDField {
			continue
		}
		rec[name] = cloneValue(value)
	}
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// Len reports how many records a collection currently holds.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func matches(rec, filter store.Record) bool {
	for name, want := range filter {
		got, ok := rec[name]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func sortRecords(recs []store.Record, orderBy []string) {
	if len(orderBy) == 0 {
		// No requested order: fall back to id so results are deterministic
		// despite map iteration.
		orderBy = []string{store.IDField}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, key := range orderBy {
			desc := strings.HasPrefix(key, "-")
			name := strings.TrimPrefix(key, "-")
			c := compareValues(recs[i][name], recs[j][name])
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders the value kinds the model layer produces; unknown
// kinds compare equal.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case !av && bv:
				return -1
			case av && !bv:
				return 1
			}
			return 0
		}
	default:
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func clone(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for name, value := range rec {
		out[name] = cloneValue(value)
	}
	return out
}

// cloneValue deep-copies the container kinds that can appear in a record;
// scalars are returned as-is.
func cloneValue(v any) any {
	switch val := v.(type) {
	case store.Record:
		return clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

package store

import "context"

// Record is one stored row or document: a mapping from field name to value.
type Record = map[string]any

// FindOptions shapes the result set of [Store.Find].
type FindOptions struct {
	// Limit caps the number of returned records; zero means no cap.
	Limit int

	// Offset skips that many records from the start of the result set.
	Offset int

	// OrderBy lists field names to sort by, in priority order. Prefix a
	// name with '-' for descending order (e.g. "-created_at").
	OrderBy []string
}

// Store is the minimal persistence contract the model layer delegates to.
//
// Every method takes the target collection (table) name explicitly, so one
// Store serves any number of model classes. Implementations must be safe
// for concurrent use.
type Store interface {
	// Find returns the records matching filter, shaped by opts. A nil or
	// empty filter matches everything. Filter values are compared for
	// equality. An empty result is ([]Record{}, nil), not an error.
	Find(ctx context.Context, collection string, filter Record, opts FindOptions) ([]Record, error)

	// Get returns the record with the given identifier.
	// Returns [ErrNotFound] when no such record exists.
	Get(ctx context.Context, collection, id string) (Record, error)

	// Insert persists a new record and returns its identifier. When attrs
	// carries a non-empty "id" the store must use it; otherwise the store
	// generates one.
	Insert(ctx context.Context, collection string, attrs Record) (string, error)

	// Update patches the record with the given identifier: only the fields
	// present in attrs are written, all others are left untouched.
	// Returns [ErrNotFound] when no such record exists.
	Update(ctx context.Context, collection, id string, attrs Record) error

	// Delete removes the record with the given identifier.
	// Returns [ErrNotFound] when no such record exists.
	Delete(ctx context.Context, collection, id string) error
}

// IDField is the canonical identifier field name in every record.
const IDField = "id"

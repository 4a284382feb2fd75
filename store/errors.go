package store

import "errors"

// ErrNotFound is returned by [Store.Get], [Store.Update], and
// [Store.Delete] when no record carries the requested identifier, and
// surfaced unchanged through the model layer's CRUD operations.
var ErrNotFound = errors.New("store: record not found")

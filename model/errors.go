package model

import "errors"

// Sentinel errors returned by the model layer.
//
// Schema violations are reported as [*schema.ValidationError] (use
// [errors.As]); not-found conditions surface [store.ErrNotFound] unchanged.
var (
	// ErrConfiguration is returned by [NewCollection] when a model class is
	// wired incorrectly (missing table name, nil store, bad bcrypt cost,
	// empty digest column). It is fatal and never retried.
	ErrConfiguration = errors.New("model: invalid configuration")

	// ErrPasswordMismatch is returned by [Model.Authenticate] when the
	// candidate does not match the stored digest, when no candidate is
	// supplied, or when the record has no stored digest yet.
	ErrPasswordMismatch = errors.New("model: password mismatch")

	// ErrPasswordDisabled is returned by [Model.Authenticate] on a model
	// class without secure-password behavior. Unlike [ErrPasswordMismatch]
	// this is a usage error, not an authentication outcome.
	ErrPasswordDisabled = errors.New("model: secure-password behavior is not enabled")

	// ErrMissingID is returned by save and destroy operations that target
	// an existing record when the model carries no identifier.
	ErrMissingID = errors.New("model: record has no id")
)

// Package model provides a base-model layer over a pluggable storage
// backend: declarative schema validation at save time, optional
// secure-password behavior with a virtual write-only password field, and a
// set of convenience CRUD operations.
//
// # Architecture
//
// A [Collection] binds one model class (a [Definition] holding the table
// name, the validation schema, and the secure-password configuration) to a
// [store.Store]. The Collection is the factory for [Model] instances and the
// home of the CRUD surface (FindAll, FindByID, FindOne, Create, Update,
// Destroy, FindOrCreate, Upsert).
//
// Saving runs an explicit, ordered pre-persist pipeline:
//
//  1. timestamps: created_at on insert, updated_at on every save
//  2. password hashing: the staged plaintext becomes a bcrypt digest in
//     the configured digest column
//  3. schema validation: full mode for inserts, partial mode for updates
//     and patches; the validated result is what gets written
//
// Hashing runs before validation so the digest column is part of the
// attribute set the validator sees. Any step failing aborts the save and
// leaves the model's attributes untouched; the staged password is cleared
// in every case.
//
// # Quick start
//
//	users, err := model.NewCollection(model.Definition{
//	    Table:          "users",
//	    Schema:         userSchema,
//	    SecurePassword: model.Password(),
//	}, memory.New())
//	if err != nil { log.Fatal(err) }
//
//	u, err := users.Create(ctx, store.Record{
//	    "email":    "alice@example.com",
//	    "password": "hunter2", // staged, hashed, never persisted in clear
//	})
//	if err != nil { log.Fatal(err) }
//
//	err = u.Authenticate("hunter2") // nil on match
//
// # Validation modes
//
// An insert of a new record validates the complete attribute set against
// the full schema: required fields are enforced and defaults applied. Any
// other save validates only the attributes being written, with the
// untouched schema fields relaxed to optional, so a two-field patch does
// not have to resupply the whole record. A new record saved with an
// explicit update/patch method is treated as an update; this covers
// upsert-style calls that pre-assign a caller-chosen identifier.
package model

// Package store defines the persistence boundary consumed by the model
// layer.
//
// A [Store] moves map-shaped records in and out of a storage backend. The
// model layer owns validation, password hashing, and save-pipeline
// semantics; a Store owns nothing but the raw reads and writes, including
// transactional guarantees around each write.
//
// Implementations ship in sub-packages:
//
//   - store/memory: thread-safe in-memory store for tests and prototyping
//   - store/postgres: PostgreSQL via database/sql and the pgx driver
//   - store/mongo: MongoDB via the official driver
//
// Callers with another backend implement [Store] themselves; the memory
// store is the reference for the expected contract.
package store

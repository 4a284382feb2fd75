// Package hashing provides the one-way password hashing primitives used by
// the secure-password behavior of the model layer.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface: hash a plaintext into a
// self-describing digest string, and verify a candidate against a stored
// digest. The shipped implementation is [BcryptHasher]; the model layer
// accepts any [Hasher], so deployments with different requirements can plug
// in their own.
//
// # Quick start
//
//	h, err := hashing.NewBcryptHasher(hashing.DefaultBcryptOptions())
//	if err != nil { log.Fatal(err) }
//
//	digest, _ := h.Make("my-secret-password")
//	ok, _ := h.Check("my-secret-password", digest) // true
//
// # Work factor
//
// Bcrypt digests embed their work factor (cost), so a digest produced under
// an old configuration stays verifiable after the configured cost changes.
// [Cost] extracts the embedded value. The default cost is
// [DefaultBcryptCost] (12), roughly 250 ms per hash on a modern server CPU.
package hashing

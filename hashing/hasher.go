package hashing

// Hasher is the interface satisfied by password-hashing implementations.
//
// All implementations must be safe for concurrent use by multiple
// goroutines: the model layer hashes for many independent records in
// parallel through a single shared Hasher.
type Hasher interface {
	// Make hashes a plaintext password and returns the encoded digest
	// string. A fresh cryptographic salt is generated on every call, so
	// two calls with the same password produce different digests.
	Make(password string) (string, error)

	// Check verifies that password matches the previously encoded digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or
	// (false, err) when the digest string is structurally invalid.
	//
	// Comparison runs in constant time to prevent timing attacks.
	Check(password, digest string) (bool, error)
}

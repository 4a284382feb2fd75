package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the recommended work factor for bcrypt.
	// At cost 12, hashing takes approximately 250 ms on a modern server
	// CPU, which satisfies OWASP ASVS Level 1 (≥ 10) and Level 2 (≥ 12).
	DefaultBcryptCost = 12
)

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the bcrypt work factor (logarithmic).
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	// Default: [DefaultBcryptCost] (12).
	Cost int
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost].
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost}
}

// BcryptHasher hashes passwords using the bcrypt algorithm.
//
// Bcrypt internally generates and stores a 128-bit random salt, so callers
// never manage salts explicitly, and the digest embeds the work factor it
// was produced with.
//
// BcryptHasher is immutable after construction and safe for concurrent use.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a BcryptHasher with the provided options.
// Returns [ErrInvalidOption] if Cost is outside [bcrypt.MinCost, bcrypt.MaxCost].
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: opts.Cost}, nil
}

// Cost returns the configured bcrypt work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Make hashes password with bcrypt and returns the Modular Crypt Format
// string (e.g., "$2a$12$...").  A fresh random salt is generated internally.
//
// Bcrypt truncates passwords longer than 72 bytes; the model layer does not
// pre-hash, so longer inputs share digests with their 72-byte prefix.
func (h *BcryptHasher) Make(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Check verifies that password matches the bcrypt-encoded digest.
// Returns (false, nil) on mismatch and (false, err) only when the digest
// string itself is malformed.
func (h *BcryptHasher) Check(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return true, nil
}

// Cost extracts the work factor embedded in a bcrypt digest string.
// Returns [ErrInvalidHash] when the string is not a bcrypt digest.
func Cost(digest string) (int, error) {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return cost, nil
}

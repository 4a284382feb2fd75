package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := hashing.Cost(digest)
//	if errors.Is(err, hashing.ErrInvalidHash) {
//	    // digest string is malformed
//	}
var (
	// ErrInvalidHash is returned when a digest string cannot be parsed
	// because it has an unrecognised format or invalid encoding.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised digest string")

	// ErrInvalidOption is returned when a constructor is called with a
	// parameter value outside the allowed range (e.g., a bcrypt cost below
	// 4 or above 31).
	ErrInvalidOption = errors.New("hashing: invalid option value")
)

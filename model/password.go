package model

import "fmt"

// Authenticate compares a plaintext candidate against the record's stored
// digest.
//
// It returns nil only on an exact match against a present digest. A wrong
// candidate, an empty candidate, and a record with no stored digest all
// report the same [ErrPasswordMismatch], so callers cannot distinguish
// which case occurred. Calling Authenticate on a model class without
// secure-password behavior is a usage error and returns
// [ErrPasswordDisabled] instead.
func (m *Model) Authenticate(candidate string) error {
	cfg := m.coll.def.SecurePassword
	if !cfg.Enabled() {
		return ErrPasswordDisabled
	}
	if candidate == "" {
		return fmt.Errorf("%w: no candidate supplied", ErrPasswordMismatch)
	}

	digest, _ := m.attrs[cfg.Column()].(string)
	if digest == "" {
		return fmt.Errorf("%w: no stored digest", ErrPasswordMismatch)
	}

	ok, err := m.coll.hasher.Check(candidate, digest)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPasswordMismatch
	}
	return nil
}

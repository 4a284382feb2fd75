package hashing_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/go-modelbase/hashing"
)

// testBcryptCost is the minimum bcrypt work factor. Used in unit tests only
// so the suite runs quickly; production code should use DefaultBcryptCost.
const testBcryptCost = bcrypt.MinCost // 4

func newTestBcryptHasher(t *testing.T) *hashing.BcryptHasher {
	t.Helper()
	h, err := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: testBcryptCost})
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructor
// ──────────────────────────────────────────────────────────────────────────────

func TestNewBcryptHasher_Valid(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, 10, 12, bcrypt.MaxCost} {
		h, err := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: cost})
		if err != nil {
			t.Errorf("cost %d: unexpected error %v", cost, err)
			continue
		}
		if h.Cost() != cost {
			t.Errorf("cost %d: got %d", cost, h.Cost())
		}
	}
}

func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost - 1, -1, bcrypt.MaxCost + 1, 99} {
		_, err := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: cost})
		if !errors.Is(err, hashing.ErrInvalidOption) {
			t.Errorf("cost %d: expected ErrInvalidOption, got %v", cost, err)
		}
	}
}

func TestDefaultBcryptOptions(t *testing.T) {
	if got := hashing.DefaultBcryptOptions().Cost; got != hashing.DefaultBcryptCost {
		t.Errorf("got cost %d, want %d", got, hashing.DefaultBcryptCost)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Make / Check
// ──────────────────────────────────────────────────────────────────────────────

func TestBcryptHasher_Make_ReturnsDigest(t *testing.T) {
	h := newTestBcryptHasher(t)
	digest, err := h.Make("password123")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("digest does not look like bcrypt: %q", digest)
	}
}

func TestBcryptHasher_Make_FreshSaltPerCall(t *testing.T) {
	h := newTestBcryptHasher(t)
	d1, _ := h.Make("same-password")
	d2, _ := h.Make("same-password")
	if d1 == d2 {
		t.Error("two Make calls with the same password must produce different digests")
	}
}

func TestBcryptHasher_Check(t *testing.T) {
	h := newTestBcryptHasher(t)
	digest, _ := h.Make("hunter2")

	ok, err := h.Check("hunter2", digest)
	if err != nil || !ok {
		t.Fatalf("correct password: ok=%v err=%v", ok, err)
	}

	ok, err = h.Check("wrong", digest)
	if err != nil {
		t.Fatalf("mismatch must not be an error: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestBcryptHasher_Check_MalformedDigest(t *testing.T) {
	h := newTestBcryptHasher(t)
	_, err := h.Check("whatever", "not-a-digest")
	if !errors.Is(err, hashing.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Cost extraction
// ──────────────────────────────────────────────────────────────────────────────

func TestCost_EmbeddedWorkFactor(t *testing.T) {
	h, err := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: 5})
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	digest, err := h.Make("secret")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}

	cost, err := hashing.Cost(digest)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != 5 {
		t.Fatalf("embedded cost = %d, want 5", cost)
	}
	if !strings.Contains(digest, "$05$") {
		t.Fatalf("digest %q does not carry the 05 work-factor marker", digest)
	}
}

func TestCost_MalformedDigest(t *testing.T) {
	if _, err := hashing.Cost("garbage"); !errors.Is(err, hashing.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

package model_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/go-modelbase/hashing"
	"github.com/hasbyte1/go-modelbase/model"
	"github.com/hasbyte1/go-modelbase/store"
	"github.com/hasbyte1/go-modelbase/store/memory"
)

// newSecureUsers builds a secure-password collection with the minimum
// bcrypt cost so the suite stays fast.
func newSecureUsers(t *testing.T, st *memory.Store) *model.Collection {
	t.Helper()
	users, err := model.NewCollection(model.Definition{
		Table:          "users",
		Schema:         userSchema(t),
		SecurePassword: model.Password(),
		BcryptCost:     bcrypt.MinCost,
	}, st)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	return users
}

func digestOf(t *testing.T, st *memory.Store, id, column string) (string, bool) {
	t.Helper()
	rec, err := st.Get(context.Background(), "users", id)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	d, ok := rec[column].(string)
	return d, ok
}

// ──────────────────────────────────────────────────────────────────────────────
// Hashing rules
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_HashesStagedPassword(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello", "password": "hunter2"})
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	digest, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn)
	if !ok {
		t.Fatal("no digest persisted")
	}
	if digest == "hunter2" {
		t.Fatal("plaintext persisted as digest")
	}

	rec, _ := st.Get(context.Background(), "users", u.ID())
	if _, present := rec["password"]; present {
		t.Fatal("virtual password field reached the store")
	}
}

func TestSave_EmptyPasswordWritesNoDigest(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello", "password": ""})
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn); ok {
		t.Fatal("digest written for empty password")
	}
}

func TestSave_AbsentPasswordLeavesDigestUnchanged(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello", "password": "hunter2"})
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	original, _ := digestOf(t, st, u.ID(), model.DefaultDigestColumn)

	u.Set("lastName", "smith")
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	after, _ := digestOf(t, st, u.ID(), model.DefaultDigestColumn)
	if after != original {
		t.Fatal("digest changed by a save that never touched the password")
	}
}

func TestSave_WhitespacePasswordIsHashed(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello", "password": "hunter2"})
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	original, _ := digestOf(t, st, u.ID(), model.DefaultDigestColumn)

	u.Set("password", "   ")
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	after, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn)
	if !ok || after == original {
		t.Fatal("whitespace-only password was not hashed")
	}
	if err := u.Authenticate("   "); err != nil {
		t.Fatalf("whitespace password does not authenticate: %v", err)
	}
}

func TestSave_StagedPasswordClearedAfterFailedSave(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "notanoption", "password": "hunter2"})
	if err := u.Save(context.Background(), model.SaveOptions{}); err == nil {
		t.Fatal("expected validation failure")
	}

	// Retry with the field fixed but without re-supplying the password:
	// nothing must be hashed on the retry.
	u.Set("firstName", "hello")
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn); ok {
		t.Fatal("stale staged password was hashed on retry")
	}
}

func TestSave_NilPasswordClearsStaging(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello"})
	u.Set("password", "hunter2")
	u.Set("password", nil)
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn); ok {
		t.Fatal("digest written after a nil password")
	}
}

func TestSave_UnsetPasswordClearsStaging(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u := users.New(store.Record{"firstName": "hello"})
	u.Set("password", "hunter2")
	u.Unset("password")
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn); ok {
		t.Fatal("digest written after staging was cleared")
	}
}

func TestModel_PasswordNeverReadable(t *testing.T) {
	users := newSecureUsers(t, memory.New())
	u := users.New(store.Record{"firstName": "hello", "password": "hunter2"})

	if v, ok := u.Get("password"); ok || v != nil {
		t.Fatalf("password readable: %v", v)
	}
	if err := u.Save(context.Background(), model.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v, ok := u.Get("password"); ok || v != nil {
		t.Fatalf("password readable after save: %v", v)
	}
}

func TestSave_CanceledContextAbortsHashing(t *testing.T) {
	st := memory.New()
	users, err := model.NewCollection(model.Definition{
		Table:          "users",
		Schema:         userSchema(t),
		SecurePassword: model.Password(), // default cost: slow enough to observe cancellation
	}, st)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := users.New(store.Record{"firstName": "hello", "password": "hunter2"})
	if err := u.Save(ctx, model.SaveOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if st.Len("users") != 0 {
		t.Fatal("aborted save reached the store")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Work factor
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_DigestEncodesConfiguredCost(t *testing.T) {
	st := memory.New()
	users, err := model.NewCollection(model.Definition{
		Table:          "users",
		Schema:         userSchema(t),
		SecurePassword: model.Password(),
		BcryptCost:     5,
	}, st)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	u, err := users.Create(context.Background(),
		store.Record{"firstName": "hello", "password": "hunter2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	digest, _ := digestOf(t, st, u.ID(), model.DefaultDigestColumn)
	cost, err := hashing.Cost(digest)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != 5 {
		t.Fatalf("embedded cost = %d, want 5", cost)
	}
}

func TestSave_DefaultCostIsTwelve(t *testing.T) {
	if testing.Short() {
		t.Skip("hashing at the default cost is slow")
	}
	st := memory.New()
	users, err := model.NewCollection(model.Definition{
		Table:          "users",
		Schema:         userSchema(t),
		SecurePassword: model.Password(),
	}, st)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	u, err := users.Create(context.Background(),
		store.Record{"firstName": "hello", "password": "hunter2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	digest, _ := digestOf(t, st, u.ID(), model.DefaultDigestColumn)
	cost, err := hashing.Cost(digest)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != hashing.DefaultBcryptCost {
		t.Fatalf("embedded cost = %d, want %d", cost, hashing.DefaultBcryptCost)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Custom digest column
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_CustomDigestColumn(t *testing.T) {
	st := memory.New()
	users, err := model.NewCollection(model.Definition{
		Table:          "users",
		Schema:         userSchema(t),
		SecurePassword: model.PasswordColumn("secret_digest"),
		BcryptCost:     bcrypt.MinCost,
	}, st)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	u, err := users.Create(context.Background(),
		store.Record{"firstName": "hello", "password": "hunter2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, ok := digestOf(t, st, u.ID(), "secret_digest"); !ok {
		t.Fatal("digest missing from the custom column")
	}
	if _, ok := digestOf(t, st, u.ID(), model.DefaultDigestColumn); ok {
		t.Fatal("digest written to the default column too")
	}
	if err := u.Authenticate("hunter2"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Authenticate
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthenticate(t *testing.T) {
	st := memory.New()
	users := newSecureUsers(t, st)

	u, err := users.Create(context.Background(),
		store.Record{"firstName": "hello", "password": "hunter2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := u.Authenticate("hunter2"); err != nil {
		t.Errorf("correct candidate rejected: %v", err)
	}
	if err := u.Authenticate("wrong"); !errors.Is(err, model.ErrPasswordMismatch) {
		t.Errorf("wrong candidate: expected ErrPasswordMismatch, got %v", err)
	}
	if err := u.Authenticate(""); !errors.Is(err, model.ErrPasswordMismatch) {
		t.Errorf("empty candidate: expected ErrPasswordMismatch, got %v", err)
	}

	unsaved := users.New(store.Record{"firstName": "hello", "password": "hunter2"})
	if err := unsaved.Authenticate("hunter2"); !errors.Is(err, model.ErrPasswordMismatch) {
		t.Errorf("no stored digest: expected ErrPasswordMismatch, got %v", err)
	}
}

func TestAuthenticate_DisabledIsUsageError(t *testing.T) {
	users := newUsers(t, memory.New())
	u := users.New(store.Record{"firstName": "hello"})

	err := u.Authenticate("anything")
	if !errors.Is(err, model.ErrPasswordDisabled) {
		t.Fatalf("expected ErrPasswordDisabled, got %v", err)
	}
	if errors.Is(err, model.ErrPasswordMismatch) {
		t.Fatal("usage error must not be a mismatch")
	}
}

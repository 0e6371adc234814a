package testsupport

import (
	"context"
	"testing"

	"listwise/internal/config"
	"listwise/internal/listing"
	"listwise/internal/session"
)

// MustOpenSessionStore opens a session.Store for tests and registers cleanup.
func MustOpenSessionStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSession creates a create-mode session holding draft.
func NewSession(t testing.TB, store *session.Store, draft listing.Draft) *session.Session {
	t.Helper()

	sess, err := store.Create(context.Background(), session.ModeCreate, "", draft)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return sess
}

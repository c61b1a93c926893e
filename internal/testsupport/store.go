package testsupport

import (
	"context"
	"testing"

	"shortlist/internal/config"
	"shortlist/internal/identity"
	"shortlist/internal/task"
)

// MustOpenStore opens the task store for the given config and registers
// cleanup. Fails the test on any error.
func MustOpenStore(t testing.TB, cfg *config.Config) *task.Store {
	t.Helper()

	store, err := task.Open(cfg)
	if err != nil {
		t.Fatalf("open task store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustCreateUser registers an account in the shared database and returns it.
func MustCreateUser(t testing.TB, store *task.Store, username, password string) *identity.User {
	t.Helper()

	users := identity.NewStore(store.DB())
	user, err := users.CreateUser(context.Background(), username, password)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

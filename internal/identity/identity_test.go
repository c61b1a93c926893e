package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortlist/internal/identity"
	"shortlist/internal/testsupport"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	users := identity.NewStore(store.DB())

	ctx := context.Background()
	created, err := users.CreateUser(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected user ID to be assigned")
	}

	user, err := users.Authenticate(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("authenticated wrong user: %q vs %q", user.ID, created.ID)
	}

	if _, err := users.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := users.Authenticate(ctx, "nobody", "hunter2"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUsernameUniquenessIsCaseFolded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	users := identity.NewStore(store.DB())

	ctx := context.Background()
	if _, err := users.CreateUser(ctx, "Alice", "secret"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := users.CreateUser(ctx, "alice", "other"); !errors.Is(err, identity.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for case-variant duplicate, got %v", err)
	}

	found, err := users.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if found.Username != "Alice" {
		t.Fatalf("expected original casing preserved, got %q", found.Username)
	}
}

func TestFindByIDUnknownUser(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	users := identity.NewStore(store.DB())

	if _, err := users.FindByID(context.Background(), "missing"); !errors.Is(err, identity.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSessionsIssueResolveRevoke(t *testing.T) {
	sessions := identity.NewSessions(time.Hour)
	session, err := sessions.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}

	userID, err := sessions.Resolve(session.Token)
	if err != nil || userID != "user-1" {
		t.Fatalf("Resolve returned %q, %v", userID, err)
	}

	sessions.Revoke(session.Token)
	if _, err := sessions.Resolve(session.Token); !errors.Is(err, identity.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after revoke, got %v", err)
	}
}

func TestSessionsExpireAndPurge(t *testing.T) {
	sessions := identity.NewSessions(time.Minute)
	now := time.Now()
	sessions.SetClock(func() time.Time { return now })

	session, err := sessions.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	sessions.SetClock(func() time.Time { return now.Add(2 * time.Minute) })
	if _, err := sessions.Resolve(session.Token); !errors.Is(err, identity.ErrSessionInvalid) {
		t.Fatalf("expected expired session to be invalid, got %v", err)
	}

	if _, err := sessions.Issue("user-2"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	sessions.SetClock(func() time.Time { return now.Add(10 * time.Minute) })
	if removed := sessions.PurgeExpired(); removed != 1 {
		t.Fatalf("expected 1 purged session, got %d", removed)
	}
	if sessions.Active() != 0 {
		t.Fatalf("expected no active sessions, got %d", sessions.Active())
	}
}

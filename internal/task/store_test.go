package task_test

import (
	"context"
	"errors"
	"testing"

	"shortlist/internal/task"
	"shortlist/internal/testsupport"
)

func TestInsertAssignsIdentifierAndTimestamps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	record, err := store.Insert(ctx, owner.ID, "  Buy milk  ")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected task ID to be assigned")
	}
	if record.Text != "Buy milk" {
		t.Fatalf("expected trimmed text, got %q", record.Text)
	}
	if record.IsChecked {
		t.Fatal("new tasks must start unchecked")
	}
	if record.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned createdAt")
	}

	fetched, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Text != "Buy milk" || fetched.OwnerID != owner.ID {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
}

func TestInsertRejectsBlankText(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := store.Insert(ctx, owner.ID, text); !errors.Is(err, task.ErrValidation) {
			t.Fatalf("Insert(%q): expected ErrValidation, got %v", text, err)
		}
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected inserts must not create records, found %d", count)
	}
}

func TestToggleCheckedFlipsAndPersists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	record, err := store.Insert(ctx, owner.ID, "Buy milk")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	toggled, err := store.ToggleChecked(ctx, owner.ID, record.ID)
	if err != nil {
		t.Fatalf("ToggleChecked failed: %v", err)
	}
	if !toggled.IsChecked {
		t.Fatal("expected first toggle to check the task")
	}

	toggled, err = store.ToggleChecked(ctx, owner.ID, record.ID)
	if err != nil {
		t.Fatalf("second ToggleChecked failed: %v", err)
	}
	if toggled.IsChecked {
		t.Fatal("expected second toggle to uncheck the task")
	}
}

func TestToggleAndDeleteEnforceOwnership(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	alice := testsupport.MustCreateUser(t, store, "alice", "secret")
	bob := testsupport.MustCreateUser(t, store, "bob", "secret")

	ctx := context.Background()
	record, err := store.Insert(ctx, alice.ID, "Private")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if _, err := store.ToggleChecked(ctx, bob.ID, record.ID); !errors.Is(err, task.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign toggle, got %v", err)
	}
	if _, err := store.Delete(ctx, bob.ID, record.ID); !errors.Is(err, task.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign delete, got %v", err)
	}

	fetched, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.IsChecked {
		t.Fatalf("foreign mutations must leave the record untouched: %#v", fetched)
	}
}

func TestToggleUnknownIDFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	if _, err := store.ToggleChecked(ctx, owner.ID, "missing"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	record, err := store.Insert(ctx, owner.ID, "Once")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Delete(ctx, owner.ID, record.ID); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if _, err := store.Delete(ctx, owner.ID, record.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("second Delete must fail with ErrNotFound, got %v", err)
	}
}

func TestListOrdersNewestFirstAndFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.MustCreateUser(t, store, "alice", "secret")

	ctx := context.Background()
	first, err := store.Insert(ctx, owner.ID, "First")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second, err := store.Insert(ctx, owner.ID, "Second")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	tasks, err := store.List(ctx, owner.ID, task.Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].CreatedAt.Before(tasks[1].CreatedAt) {
		t.Fatalf("expected newest-first ordering, got %q then %q", tasks[0].Text, tasks[1].Text)
	}

	if _, err := store.ToggleChecked(ctx, owner.ID, first.ID); err != nil {
		t.Fatalf("ToggleChecked failed: %v", err)
	}
	visible, err := store.List(ctx, owner.ID, task.Filter{HideChecked: true})
	if err != nil {
		t.Fatalf("filtered List failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != second.ID {
		t.Fatalf("hide-completed filter failed: %#v", visible)
	}
	all, err := store.List(ctx, owner.ID, task.Filter{})
	if err != nil {
		t.Fatalf("unfiltered List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list must include checked tasks, got %d", len(all))
	}
}

func TestListScopesToOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	alice := testsupport.MustCreateUser(t, store, "alice", "secret")
	bob := testsupport.MustCreateUser(t, store, "bob", "secret")

	ctx := context.Background()
	if _, err := store.Insert(ctx, alice.ID, "Alice task"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, bob.ID, "Bob task"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	tasks, err := store.List(ctx, bob.ID, task.Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "Bob task" {
		t.Fatalf("cross-owner leakage in List: %#v", tasks)
	}
}

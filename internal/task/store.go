package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"golang.org/x/text/unicode/norm"

	"shortlist/internal/config"
)

// Store manages task persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the task database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath connects to the database at the given location. Used directly by
// tests; daemon code goes through Open.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the shared database handle for sibling stores (users live in the
// same file so task ownership can be enforced with a foreign key).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Insert creates a task owned by ownerID. The text is whitespace-trimmed and
// NFC-normalized; an empty result is rejected with ErrValidation.
func (s *Store) Insert(ctx context.Context, ownerID, text string) (*Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, Wrap(ErrValidation, "insert", "task text must not be empty", nil)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, Wrap(ErrValidation, "insert", "owner is required", nil)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	record := &Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Text:      norm.NFC.String(trimmed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tasks (id, owner_id, text, is_checked, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		record.ID,
		record.OwnerID,
		record.Text,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return record, nil
}

// ToggleChecked flips the checked flag of the caller's task and returns the
// new value. The record is loaded and updated in one transaction so concurrent
// toggles cannot interleave.
func (s *Store) ToggleChecked(ctx context.Context, ownerID, id string) (*Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin toggle tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	record, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Wrap(ErrNotFound, "toggle", fmt.Sprintf("task %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if record.OwnerID != ownerID {
		return nil, Wrap(ErrUnauthorized, "toggle", fmt.Sprintf("task %s is not owned by caller", id), nil)
	}

	record.IsChecked = !record.IsChecked
	record.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(
		ctx,
		`UPDATE tasks SET is_checked = ?, updated_at = ? WHERE id = ?`,
		boolToInt(record.IsChecked),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit toggle: %w", err)
	}
	return record, nil
}

// Delete removes the caller's task. Deleting an id that no longer exists is a
// reported failure, not a silent success, so clients can surface stale state.
func (s *Store) Delete(ctx context.Context, ownerID, id string) (*Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	record, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Wrap(ErrNotFound, "delete", fmt.Sprintf("task %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if record.OwnerID != ownerID {
		return nil, Wrap(ErrUnauthorized, "delete", fmt.Sprintf("task %s is not owned by caller", id), nil)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return record, nil
}

// List returns the owner's tasks ordered newest-first, optionally hiding
// completed ones.
func (s *Store) List(ctx context.Context, ownerID string, filter Filter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	if filter.HideChecked {
		query += ` AND is_checked = 0`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// Get fetches a task by identifier regardless of owner. Returns nil when the
// record does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Task, error) {
	record, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return record, nil
}

// Count reports the total number of task records across all owners.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// Stats returns per-owner task counts for status output.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT owner_id, COUNT(1) FROM tasks GROUP BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var owner string
		var count int
		if err := rows.Scan(&owner, &count); err != nil {
			return nil, err
		}
		stats[owner] = count
	}
	return stats, rows.Err()
}

const taskColumns = "id, owner_id, text, is_checked, created_at, updated_at"

func scanTask(scanner interface{ Scan(dest ...any) error }) (*Task, error) {
	var (
		id         string
		ownerID    string
		text       string
		isChecked  int64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &ownerID, &text, &isChecked, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	record := &Task{
		ID:        id,
		OwnerID:   ownerID,
		Text:      text,
		IsChecked: isChecked != 0,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

// Sentinel errors for credential and lookup failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
)

// User is an account able to own tasks.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Store persists users in the shared application database.
type Store struct {
	db *sql.DB
}

// NewStore wires user persistence onto the shared database handle. The users
// table is created by the task store's migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var usernameFolder = cases.Fold()

// FoldUsername returns the canonical case-folded form used for uniqueness.
func FoldUsername(username string) string {
	return usernameFolder.String(strings.TrimSpace(username))
}

// CreateUser registers a new account with a bcrypt-hashed credential.
func (s *Store) CreateUser(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrInvalidCredentials)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, username_fold, password_hash, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		FoldUsername(username),
		string(hash),
		user.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
// Lookup and comparison failures collapse into ErrInvalidCredentials so the
// response does not reveal whether the username exists.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username_fold = ?`,
		FoldUsername(username),
	)
	var (
		user       User
		hash       string
		createdRaw string
	)
	if err := row.Scan(&user.ID, &user.Username, &hash, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		user.CreatedAt = created
	}
	return &user, nil
}

// FindByUsername fetches an account by name. Returns ErrUserNotFound when absent.
func (s *Store) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findBy(ctx, `username_fold = ?`, FoldUsername(username))
}

// FindByID fetches an account by identifier. Returns ErrUserNotFound when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findBy(ctx, `id = ?`, id)
}

func (s *Store) findBy(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, created_at FROM users WHERE `+where, arg)
	var (
		user       User
		createdRaw string
	)
	if err := row.Scan(&user.ID, &user.Username, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		user.CreatedAt = created
	}
	return &user, nil
}

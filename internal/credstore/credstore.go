package credstore

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/libilabs/console/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - kv table
const currentSchemaVersion = 1

// Fixed keys. Adding a key means bumping nothing; the kv table is open.
const (
	keyToken   = "auth_token"
	keyProfile = "user_profile"
)

// ErrNotFound is returned when no value is stored under the requested key.
var ErrNotFound = errors.New("credstore: not found")

// Store is the persisted client state, backed by one SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the state database at path.
//
// Configured the same way as any of our SQLite files: WAL mode, NORMAL
// synchronous, 5-second busy timeout, single connection (one writer).
// Idempotent - safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("credstore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSession stores the token and profile from a successful login.
func (s *Store) SaveSession(token string, user model.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credstore: encode profile: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("credstore: begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		keyToken:   token,
		keyProfile: string(profile),
	} {
		if _, err := tx.Exec(`
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		`, key, value); err != nil {
			return fmt.Errorf("credstore: save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Token returns the stored bearer token, or ErrNotFound.
func (s *Store) Token() (string, error) {
	return s.get(keyToken)
}

// User returns the cached profile, or ErrNotFound. The cache lets the
// console render the operator identity before the first API round trip.
func (s *Store) User() (model.User, error) {
	raw, err := s.get(keyProfile)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return model.User{}, fmt.Errorf("credstore: decode profile: %w", err)
	}
	return u, nil
}

// Clear drops the stored session. Used on logout and on a 401.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyProfile); err != nil {
		return fmt.Errorf("credstore: clear: %w", err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credstore: read %s: %w", key, err)
	}
	return value, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	// No incremental migrations yet; version 0 databases get the full
	// schema above.
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

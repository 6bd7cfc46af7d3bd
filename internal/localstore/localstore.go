// Package localstore persists locally authored exercises and builder drafts
// in a SQLite database so they survive service restarts. Custom exercises
// stay local even when their community submission fails — the optimistic
// local mutation is intentionally kept.
package localstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/gymbo/internal/models"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database at dir/local.db.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the local store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating local store dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "local.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS custom_exercises (
		key        TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS workout_drafts (
		owner      TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating local store tables: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveCustomExercise stores a locally authored exercise, keyed by its
// catalog key.
func (s *Store) SaveCustomExercise(e models.Exercise) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding custom exercise: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO custom_exercises (key, data) VALUES (?, ?)`,
		e.Key, string(data))
	if err != nil {
		return fmt.Errorf("saving custom exercise: %w", err)
	}
	return nil
}

// ListCustomExercises returns all locally authored exercises, newest first.
func (s *Store) ListCustomExercises() ([]models.Exercise, error) {
	rows, err := s.db.Query(
		`SELECT data FROM custom_exercises ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying custom exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning custom exercise: %w", err)
		}
		var e models.Exercise
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decoding custom exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SaveDraft stores the builder state for an owner, replacing any previous draft.
func (s *Store) SaveDraft(owner string, w models.Workout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO workout_drafts (owner, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		owner, string(data))
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// LoadDraft returns the stored draft for an owner, or nil if none exists.
func (s *Store) LoadDraft(owner string) (*models.Workout, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM workout_drafts WHERE owner = ?`, owner).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	var w models.Workout
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &w, nil
}

// DeleteDraft removes the stored draft for an owner, if any.
func (s *Store) DeleteDraft(owner string) error {
	if _, err := s.db.Exec(`DELETE FROM workout_drafts WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}

// Close closes the local store.
func (s *Store) Close() error {
	return s.db.Close()
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/wsx/internal/shared"
)

// ProgressEntry describes a stored snapshot without its payload.
type ProgressEntry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// ProgressStore keeps one serialized progress snapshot per key.
type ProgressStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewProgressStore creates a new ProgressStore with the given database connection
func NewProgressStore(db *sql.DB) *ProgressStore {
	return &ProgressStore{db: db, now: time.Now}
}

// Get returns the payload stored under key, or [shared.ErrProgressNotFound]
func (s *ProgressStore) Get(key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM progress WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrProgressNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read progress: %v", shared.ErrStorageFailed, err)
	}
	return []byte(payload), nil
}

// Put writes payload under key, replacing any previous snapshot
func (s *ProgressStore) Put(key string, payload []byte) error {
	query := `
		INSERT INTO progress (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, key, string(payload), s.now()); err != nil {
		return fmt.Errorf("%w: failed to write progress: %v", shared.ErrStorageFailed, err)
	}
	return nil
}

// Delete removes the snapshot stored under key
func (s *ProgressStore) Delete(key string) error {
	result, err := s.db.Exec(`DELETE FROM progress WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: failed to delete progress: %v", shared.ErrStorageFailed, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrProgressNotFound, key)
	}
	return nil
}

// List returns every stored key ordered by key
func (s *ProgressStore) List() ([]ProgressEntry, error) {
	rows, err := s.db.Query(`SELECT key, length(payload), updated_at FROM progress ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query progress: %v", shared.ErrStorageFailed, err)
	}
	defer rows.Close()

	var entries []ProgressEntry
	for rows.Next() {
		var e ProgressEntry
		if err := rows.Scan(&e.Key, &e.Size, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

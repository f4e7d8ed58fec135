// Package storage keeps autosaved snapshots of the document in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"LocalNotes/internal/document"
	"LocalNotes/internal/state"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when no snapshot has been saved yet.
var ErrNotFound = errors.New("no saved snapshot")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id       TEXT PRIMARY KEY,
    revision INTEGER NOT NULL,
    saved_at INTEGER NOT NULL,
    body     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_saved_at ON snapshots (saved_at);
`

// Snapshot is a stored copy of a document.
type Snapshot struct {
	ID       string
	Revision uint64
	SavedAt  time.Time
	Pages    state.Pages
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for a
// throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open autosave db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate autosave db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores pages and returns the new snapshot ID.
func (s *Store) Save(ctx context.Context, revision uint64, pages state.Pages) (string, error) {
	body, err := document.Marshal(pages)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, revision, saved_at, body) VALUES (?, ?, ?, ?)`,
		id, int64(revision), time.Now().UnixNano(), string(body))
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// Latest returns the most recently saved snapshot that still decodes.
// Snapshots that fail to decode are skipped; if none decodes, the error of
// the newest one is returned.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, revision, saved_at, body
        FROM snapshots
        ORDER BY saved_at DESC, rowid DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var firstErr error
	for rows.Next() {
		var (
			snap    Snapshot
			rev     int64
			savedAt int64
			body    string
		)
		if err := rows.Scan(&snap.ID, &rev, &savedAt, &body); err != nil {
			return nil, err
		}
		pages, err := document.Unmarshal([]byte(body))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("snapshot %s: %w", snap.ID, err)
			}
			continue
		}
		snap.Revision = uint64(rev)
		snap.SavedAt = time.Unix(0, savedAt)
		snap.Pages = pages
		return &snap, nil
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrNotFound
}

// Prune deletes all but the newest keep snapshots.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
        DELETE FROM snapshots
        WHERE id NOT IN (
            SELECT id FROM snapshots ORDER BY saved_at DESC, rowid DESC LIMIT ?
        )
    `, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

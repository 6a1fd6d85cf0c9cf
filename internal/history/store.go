package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"discid/internal/config"
)

// Entry is one recorded disc read.
type Entry struct {
	ID            int64     `json:"id"`
	DiscID        string    `json:"disc_id"`
	FreeDBID      string    `json:"freedb_id"`
	Device        string    `json:"device"`
	FirstTrack    int       `json:"first_track"`
	LastTrack     int       `json:"last_track"`
	Sectors       int       `json:"sectors"`
	TOC           string    `json:"toc"`
	MCN           string    `json:"mcn,omitempty"`
	SubmissionURL string    `json:"submission_url"`
	SeenCount     int       `json:"seen_count"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
}

// Store manages read history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history: config required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.History.Path)
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

	store := &Store{db: db, path: cfg.History.Path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS disc_reads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    disc_id TEXT NOT NULL UNIQUE,
    freedb_id TEXT NOT NULL,
    device TEXT NOT NULL DEFAULT '',
    first_track INTEGER NOT NULL,
    last_track INTEGER NOT NULL,
    sectors INTEGER NOT NULL,
    toc TEXT NOT NULL,
    mcn TEXT NOT NULL DEFAULT '',
    submission_url TEXT NOT NULL DEFAULT '',
    seen_count INTEGER NOT NULL DEFAULT 1,
    first_seen TEXT NOT NULL,
    last_seen TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_disc_reads_last_seen ON disc_reads(last_seen);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts the read or, when the disc ID was seen before, bumps its
// seen counter and refreshes the mutable columns.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	entry.DiscID = strings.TrimSpace(entry.DiscID)
	if entry.DiscID == "" {
		return nil, errors.New("disc ID cannot be empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO disc_reads (
            disc_id, freedb_id, device, first_track, last_track, sectors,
            toc, mcn, submission_url, seen_count, first_seen, last_seen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT(disc_id) DO UPDATE SET
            seen_count = seen_count + 1,
            device = excluded.device,
            mcn = excluded.mcn,
            last_seen = excluded.last_seen`,
		entry.DiscID,
		entry.FreeDBID,
		entry.Device,
		entry.FirstTrack,
		entry.LastTrack,
		entry.Sectors,
		entry.TOC,
		entry.MCN,
		entry.SubmissionURL,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("record read: %w", err)
	}

	return s.GetByDiscID(ctx, entry.DiscID)
}

// GetByDiscID fetches an entry by disc ID.
func (s *Store) GetByDiscID(ctx context.Context, discID string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, disc_id, freedb_id, device, first_track, last_track, sectors,
                toc, mcn, submission_url, seen_count, first_seen, last_seen
         FROM disc_reads WHERE disc_id = ?`,
		discID,
	)
	return scanEntry(row)
}

// List returns all entries ordered by most recently seen.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, disc_id, freedb_id, device, first_track, last_track, sectors,
                toc, mcn, submission_url, seen_count, first_seen, last_seen
         FROM disc_reads ORDER BY last_seen DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reads: %w", err)
	}
	return entries, nil
}

// Remove deletes an entry by row ID.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM disc_reads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove read: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("history entry %d not found", id)
	}
	return nil
}

// Clear deletes all entries and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM disc_reads`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return affected, nil
}

// Count returns the number of recorded discs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disc_reads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reads: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var firstSeen, lastSeen string
	err := row.Scan(
		&entry.ID,
		&entry.DiscID,
		&entry.FreeDBID,
		&entry.Device,
		&entry.FirstTrack,
		&entry.LastTrack,
		&entry.Sectors,
		&entry.TOC,
		&entry.MCN,
		&entry.SubmissionURL,
		&entry.SeenCount,
		&firstSeen,
		&lastSeen,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history entry not found")
		}
		return nil, fmt.Errorf("scan read: %w", err)
	}
	entry.FirstSeen = parseTimestamp(firstSeen)
	entry.LastSeen = parseTimestamp(lastSeen)
	return &entry, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

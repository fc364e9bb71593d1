// Package history records resolved videos in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vlivedl/internal/config"
	"vlivedl/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	video_id    TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	creator     TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT '',
	live        INTEGER NOT NULL DEFAULT 0,
	run_id      TEXT NOT NULL DEFAULT '',
	resolved_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_resolved_at ON history(resolved_at DESC);
`

// Store is the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the database at the XDG data path.
func OpenDefault() (*Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts an entry or replaces the one with the same video id.
func (s *Store) Save(ctx context.Context, e media.HistoryEntry) error {
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (video_id, title, creator, url, live, run_id, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title = excluded.title,
			creator = excluded.creator,
			url = excluded.url,
			live = excluded.live,
			run_id = excluded.run_id,
			resolved_at = excluded.resolved_at`,
		e.VideoID, e.Title, e.Creator, e.URL, e.Live, e.RunID, e.ResolvedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving history entry %s: %w", e.VideoID, err)
	}
	return nil
}

// Record saves every resolved video of a result. baseURL is the site the
// videos were resolved from.
func (s *Store) Record(ctx context.Context, res *media.Result, baseURL, runID string) error {
	now := time.Now()
	for _, v := range res.Videos() {
		err := s.Save(ctx, media.HistoryEntry{
			VideoID:    v.ID,
			Title:      v.Title,
			Creator:    v.Creator,
			URL:        strings.TrimRight(baseURL, "/") + "/video/" + v.ID,
			Live:       v.IsLive,
			RunID:      runID,
			ResolvedAt: now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns entries newest first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]media.HistoryEntry, error) {
	query := `SELECT video_id, title, creator, url, live, run_id, resolved_at
		FROM history ORDER BY resolved_at DESC, video_id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var e media.HistoryEntry
		var resolved int64
		if err := rows.Scan(&e.VideoID, &e.Title, &e.Creator, &e.URL, &e.Live, &e.RunID, &resolved); err != nil {
			return nil, fmt.Errorf("reading history: %w", err)
		}
		e.ResolvedAt = time.Unix(0, resolved)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}

// Remove deletes one entry.
func (s *Store) Remove(ctx context.Context, videoID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("removing history entry %s: %w", videoID, err)
	}
	return nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay creates display strings for fzf selection from history entries.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	var items []string
	for _, e := range entries {
		display := e.Title
		if e.Creator != "" {
			display += " - " + e.Creator
		}
		if e.Live {
			display += " [LIVE]"
		}
		items = append(items, display)
	}
	return items
}

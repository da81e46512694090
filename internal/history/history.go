// Package history keeps a small SQLite database of visited roots and ranks
// them by frecency for the quick-jump modal. A missing or unreadable
// database degrades to an empty history; nothing in the explorer depends
// on it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// Visit is one ranked entry from the history database.
type Visit struct {
	Path      string
	Count     int
	LastVisit time.Time
}

// Store wraps the visits database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	path       TEXT PRIMARY KEY,
	count      INTEGER NOT NULL DEFAULT 0,
	last_visit INTEGER NOT NULL DEFAULT 0
)`

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordVisit bumps the visit count for path and stamps the visit time.
func (s *Store) RecordVisit(path string) error {
	_, err := s.db.Exec(`
		INSERT INTO visits (path, count, last_visit) VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			count = count + 1,
			last_visit = excluded.last_visit`,
		path, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("recording visit to %s: %w", path, err)
	}
	return nil
}

// Top returns up to n visits ranked by frecency: visit count weighted by
// how recently the path was last opened (the zoxide-style half-life
// buckets: today x4, this week x2, this month x1, older x1/2).
func (s *Store) Top(n int) ([]Visit, error) {
	rows, err := s.db.Query(`SELECT path, count, last_visit FROM visits`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var last int64
		if err := rows.Scan(&v.Path, &v.Count, &last); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		v.LastVisit = time.Unix(last, 0)
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	sortByScore(visits, now)
	if len(visits) > n {
		visits = visits[:n]
	}
	return visits, nil
}

// Forget removes a path from the history (e.g., a directory that no longer
// exists when the user tried to jump to it).
func (s *Store) Forget(path string) error {
	_, err := s.db.Exec(`DELETE FROM visits WHERE path = ?`, path)
	return err
}

func frecency(v Visit, now time.Time) float64 {
	age := now.Sub(v.LastVisit)
	weight := 0.5
	switch {
	case age < 24*time.Hour:
		weight = 4
	case age < 7*24*time.Hour:
		weight = 2
	case age < 30*24*time.Hour:
		weight = 1
	}
	return float64(v.Count) * weight
}

func sortByScore(visits []Visit, now time.Time) {
	sort.SliceStable(visits, func(i, j int) bool {
		return frecency(visits[i], now) > frecency(visits[j], now)
	})
}

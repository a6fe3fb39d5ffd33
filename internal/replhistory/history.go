// Package replhistory persists REPL input lines to a small SQLite database
// so history survives across sessions.
package replhistory

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// History is a handle to the on-disk line-history store.
type History struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	return h.db.Close()
}

// Append records line as the most recent REPL input.
func (h *History) Append(line string) error {
	if line == "" {
		return nil
	}
	_, err := h.db.Exec(`INSERT INTO history (line) VALUES (?)`, line)
	return err
}

// Recent returns up to limit of the most recently entered lines, oldest
// first, for seeding a line editor's history buffer.
func (h *History) Recent(limit int) ([]string, error) {
	rows, err := h.db.Query(
		`SELECT line FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

// Trim deletes all but the most recent keep rows, keeping the store from
// growing without bound across a long-lived install.
func (h *History) Trim(keep int) error {
	_, err := h.db.Exec(`
DELETE FROM history WHERE id NOT IN (
	SELECT id FROM history ORDER BY id DESC LIMIT ?
)`, keep)
	return err
}

// Package kb is the mortgage knowledge base: a SQLite FTS5 index over a
// seeded corpus of reference entries.
package kb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one knowledge base record.
type Entry struct {
	Title   string
	Content string
}

// Store is a SQLite-backed knowledge base.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the knowledge base at the given path and
// configures WAL mode.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "kb: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "kb: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const kbMigration = `
CREATE VIRTUAL TABLE IF NOT EXISTS kb_fts USING fts5(title, content);
`

// Migrate creates the FTS index and seeds it on first run.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, kbMigration); err != nil {
		return eris.Wrap(err, "kb: migrate")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM kb_fts`).Scan(&count); err != nil {
		return eris.Wrap(err, "kb: count entries")
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "kb: begin seed tx")
	}
	defer tx.Rollback()

	for _, e := range seedEntries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kb_fts (title, content) VALUES (?, ?)`,
			e.Title, e.Content,
		); err != nil {
			return eris.Wrapf(err, "kb: seed entry %q", e.Title)
		}
	}

	return eris.Wrap(tx.Commit(), "kb: commit seed")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ftsQuery turns a free-text question into an FTS5 match expression.
// Tokens are quoted and OR-joined so user punctuation cannot break the
// query syntax.
func ftsQuery(q string) string {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}

// Search returns up to limit entries ranked by relevance. A question with
// no index hits returns an empty slice, not an error.
func (s *Store) Search(ctx context.Context, question string, limit int) ([]Entry, error) {
	match := ftsQuery(question)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, content FROM kb_fts WHERE kb_fts MATCH ? ORDER BY rank LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "kb: search")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Title, &e.Content); err != nil {
			return nil, eris.Wrap(err, "kb: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "kb: iterate entries")
}

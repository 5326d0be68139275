package vocab

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/mireles/ontoground/internal/grounding"
)

// sqliteBackend searches a local per-vocabulary term index. The index is a
// single table terms(id, label); lookup is a LIKE scan ordered by label
// length so the tightest labels come first. That ordering is this backend's
// relevance order and callers treat it as authoritative.
type sqliteBackend struct {
	dataDir string
	name    string

	once sync.Once
	db   *sql.DB
	err  error
}

func newSQLiteBackend(dataDir, rest string) *sqliteBackend {
	// Handles may carry nested prefixes ("obo:mondo"); the vocabulary name is
	// the last segment.
	parts := strings.Split(rest, ":")
	return &sqliteBackend{
		dataDir: dataDir,
		name:    parts[len(parts)-1],
	}
}

// Path returns the index database path for a vocabulary name.
func Path(dataDir, name string) string {
	return filepath.Join(dataDir, name+".db")
}

func (b *sqliteBackend) open() (*sql.DB, error) {
	b.once.Do(func() {
		path := Path(b.dataDir, b.name)
		if _, statErr := os.Stat(path); statErr != nil {
			b.err = fmt.Errorf("%w: no local index for %q at %s (run the index command first)",
				ErrVocabularyNotFound, b.name, path)
			return
		}
		b.db, b.err = sql.Open("sqlite", path+"?mode=ro")
	})
	return b.db, b.err
}

func (b *sqliteBackend) find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error) {
	db, err := b.open()
	if err != nil {
		return nil, err
	}

	// LIKE is case-insensitive for ASCII by default in SQLite.
	rows, err := db.QueryContext(ctx,
		`SELECT id, label FROM terms
		 WHERE label LIKE ? ESCAPE '\' OR id = ?
		 ORDER BY length(label), rowid
		 LIMIT 100`,
		"%"+escapeLike(query)+"%", query)
	if err != nil {
		return nil, fmt.Errorf("querying %s index: %w", b.name, err)
	}
	defer rows.Close()

	var candidates []grounding.Candidate
	for rows.Next() {
		var c grounding.Candidate
		if err := rows.Scan(&c.ID, &c.Label); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in user queries so "%"/"_" in
// a term match literally instead of matching every row.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// BuildIndex creates or replaces the local term index for a vocabulary from
// (id, label) pairs. Existing terms are dropped first so a rebuild is
// idempotent.
func BuildIndex(ctx context.Context, dataDir, name string, terms []grounding.Candidate) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", Path(dataDir, name))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS terms (id TEXT NOT NULL, label TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS terms_label ON terms(label)`,
		`DELETE FROM terms`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("resetting index: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO terms(id, label) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range terms {
		if t.ID == "" || t.Label == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Label); err != nil {
			return fmt.Errorf("inserting term %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// Package sqlite persists the handbook corpus in a single SQLite file:
// chunk rows with metadata columns, an FTS5 shadow table for lexical
// search, and embedded vectors as little-endian float32 blobs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// Store serves queries over one index file and supports destructive
// rebuilds of it.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the index database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "open index", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "open index", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			page INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL DEFAULT '',
			doc_type TEXT NOT NULL,
			ects_lp REAL,
			responsibility TEXT NOT NULL DEFAULT '',
			part_of TEXT NOT NULL DEFAULT '',
			component_type TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			embedding BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_doc_type ON chunks(doc_type)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_ects ON chunks(ects_lp)`,
		`CREATE TABLE IF NOT EXISTS knowledge_records (
			id TEXT PRIMARY KEY,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			category TEXT NOT NULL,
			value TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chunks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chunks_fts USING fts5(content, title, content=chunks, content_rowid=rowid)`,
			`CREATE TRIGGER chunks_ai AFTER INSERT ON chunks BEGIN
				INSERT INTO chunks_fts(rowid, content, title) VALUES (new.rowid, new.content, new.title);
			END`,
			`CREATE TRIGGER chunks_ad AFTER DELETE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content, title) VALUES('delete', old.rowid, old.content, old.title);
			END`,
			`CREATE TRIGGER chunks_au AFTER UPDATE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content, title) VALUES('delete', old.rowid, old.content, old.title);
				INSERT INTO chunks_fts(rowid, content, title) VALUES (new.rowid, new.content, new.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// ReplaceAll rebuilds the whole index atomically: the new corpus is
// written to a sibling temp file and renamed over the served path, so a
// failed rebuild leaves the previous index untouched.
func (s *Store) ReplaceAll(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("sqlite: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	tmpPath := s.path + ".rebuild"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing stale rebuild file: %w", err)
	}

	if err := buildIndexFile(ctx, tmpPath, chunks, vectors); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing index before swap: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("swapping index file: %w", err)
	}

	db, err := openDB(s.path)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func buildIndexFile(ctx context.Context, path string, chunks []domain.Chunk, vectors [][]float32) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks
		(id, content, source, page, title, doc_type, ects_lp, responsibility, part_of, component_type, language, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		var blob []byte
		if vectors[i] != nil {
			blob = encodeVector(vectors[i])
		}
		m := c.Metadata
		if _, err := stmt.ExecContext(ctx,
			c.Key(), c.Content, m.Source, m.Page, m.Title, string(m.DocType),
			m.EctsLP, m.Responsibility, m.PartOf, m.ComponentType, m.Language, blob,
		); err != nil {
			return fmt.Errorf("inserting chunk %q: %w", c.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// File: internal/infra/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"kb-pipeline/internal/domain/model"
)

// ArtifactStore persists the normalized outputs of a pipeline run so
// later enrichment stages (and external consumers) can read them back.
type ArtifactStore interface {
	SaveRun(ctx context.Context, jobID string, docs []model.Document, units []model.TextUnit) error
	RunStats(ctx context.Context, jobID string) (docs int, units int, err error)
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the artifact database at path with
// WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (ArtifactStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	job_id        TEXT NOT NULL,
	id            TEXT NOT NULL,
	uri           TEXT NOT NULL,
	title         TEXT,
	text          TEXT NOT NULL,
	creation_date TEXT,
	source_type   TEXT,
	metadata      TEXT,
	PRIMARY KEY (job_id, id)
);

CREATE TABLE IF NOT EXISTS text_units (
	job_id      TEXT NOT NULL,
	id          TEXT NOT NULL,
	document_id TEXT NOT NULL,
	text        TEXT NOT NULL,
	ord         INTEGER NOT NULL,
	metadata    TEXT,
	PRIMARY KEY (job_id, id)
);

CREATE INDEX IF NOT EXISTS idx_text_units_document ON text_units(job_id, document_id, ord);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes a run's documents and text units in one transaction,
// replacing any previous artifacts recorded under the same job id.
func (s *sqliteStore) SaveRun(ctx context.Context, jobID string, docs []model.Document, units []model.TextUnit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE job_id = ?`, jobID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM text_units WHERE job_id = ?`, jobID); err != nil {
		return err
	}

	for _, d := range docs {
		meta, _ := json.Marshal(d.Metadata)
		var created string
		if d.CreationDate != nil {
			created = d.CreationDate.Format(time.RFC3339)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (job_id, id, uri, title, text, creation_date, source_type, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			jobID, d.ID, d.URI, d.Title, d.Text, created, d.SourceType, string(meta),
		); err != nil {
			return fmt.Errorf("insert document %s: %w", d.ID, err)
		}
	}
	for _, u := range units {
		meta, _ := json.Marshal(u.Metadata)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO text_units (job_id, id, document_id, text, ord, metadata)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			jobID, u.ID, u.DocumentID, u.Text, u.Order, string(meta),
		); err != nil {
			return fmt.Errorf("insert text unit %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// RunStats returns how many documents and text units are stored for a job.
func (s *sqliteStore) RunStats(ctx context.Context, jobID string) (int, int, error) {
	var docs, units int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE job_id = ?`, jobID).Scan(&docs); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM text_units WHERE job_id = ?`, jobID).Scan(&units); err != nil {
		return 0, 0, err
	}
	return docs, units, nil
}

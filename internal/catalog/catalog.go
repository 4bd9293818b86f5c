// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists converted conversations in a SQLite database and
// serves full-text search over their messages.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/vertexmd/internal/export"
	"github.com/meshintel/vertexmd/pkg/types"
)

const dbFile = "catalog.db"

// Catalog manages the conversation catalog SQLite database.
type Catalog struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the catalog database at cfg.CatalogDir/catalog.db,
// creating the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Catalog, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	c := &Catalog{db: db, dir: cfg.CatalogDir, maxResults: maxResults}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			context TEXT,
			message_count INTEGER NOT NULL,
			imported_at TEXT NOT NULL,
			import_run TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL REFERENCES conversations(id),
			seq INTEGER NOT NULL,
			author TEXT NOT NULL,
			body TEXT NOT NULL,
			UNIQUE(conversation_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`,
		`CREATE TABLE IF NOT EXISTS import_status (
			source_path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := c.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='messages_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE messages_fts USING fts5(body, content=messages, content_rowid=rowid)`,
			`CREATE TRIGGER messages_ai AFTER INSERT ON messages BEGIN
				INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
			`CREATE TRIGGER messages_ad AFTER DELETE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
			END`,
			`CREATE TRIGGER messages_au AFTER UPDATE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
				INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := c.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// ImportSummary holds counts from a catalog import run.
type ImportSummary struct {
	Imported int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of export files processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Updated + s.Skipped + s.Failed
}

// Import reads every .json export in dir into the catalog. Files unchanged
// since the last import are skipped by mod time; changed files replace their
// previous messages. Each run is tagged with a fresh run ID.
func (c *Catalog) Import(ctx context.Context, dir string, w io.Writer) (ImportSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading export directory %s: %w", dir, err)
	}

	runID := uuid.NewString()
	var summary ImportSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		convID := strings.TrimSuffix(entry.Name(), ".json")
		sourcePath := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", convID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = c.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM import_status WHERE source_path = ?`, sourcePath,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", convID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(sourcePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", convID, err)
			summary.Failed++
			continue
		}

		doc, err := export.Parse(data)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", convID, err)
			summary.Failed++
			continue
		}

		messages, err := doc.Messages()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", convID, err)
			summary.Failed++
			continue
		}

		if err := c.importConversation(ctx, convID, sourcePath, doc.Context, messages, modTime, runID, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", convID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d messages)\n", convID, len(messages))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "imported %s (%d messages)\n", convID, len(messages))
			summary.Imported++
		}
	}

	fmt.Fprintf(w, "\nimported: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Imported, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (c *Catalog) importConversation(ctx context.Context, convID, sourcePath, convContext string, messages []export.Message, modTime, runID string, isUpdate bool) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, convID); err != nil {
			return fmt.Errorf("deleting old messages: %w", err)
		}
	}

	importedAt := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, source_path, context, message_count, imported_at, import_run)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, context=excluded.context,
			message_count=excluded.message_count, imported_at=excluded.imported_at,
			import_run=excluded.import_run`,
		convID, sourcePath, convContext, len(messages), importedAt, runID,
	)
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (conversation_id, seq, author, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range messages {
		body := strings.Join(msg.Content.BodyLines(), "\n")
		if _, err := stmt.ExecContext(ctx, convID, i+1, msg.Author.Heading(), body); err != nil {
			return fmt.Errorf("inserting message %d: %w", i+1, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO import_status (source_path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		sourcePath, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating import status: %w", err)
	}

	return tx.Commit()
}

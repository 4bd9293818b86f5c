// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one conversation with its messages for export.
type ExportEntry struct {
	ID           string       `json:"id" yaml:"id"`
	SourcePath   string       `json:"source_path" yaml:"source_path"`
	Context      string       `json:"context,omitempty" yaml:"context,omitempty"`
	MessageCount int          `json:"message_count" yaml:"message_count"`
	ImportedAt   string       `json:"imported_at" yaml:"imported_at"`
	Messages     []ExportTurn `json:"messages" yaml:"messages"`
}

// ExportTurn is one message within an exported conversation.
type ExportTurn struct {
	Seq    int    `json:"seq" yaml:"seq"`
	Author string `json:"author" yaml:"author"`
	Body   string `json:"body" yaml:"body"`
}

// ExportYAML writes the full catalog to <catalog-dir>/export.yaml.
func (c *Catalog) ExportYAML(ctx context.Context) error {
	entries, err := c.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(c.dir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the full catalog to <catalog-dir>/export.json.
func (c *Catalog) ExportJSON(ctx context.Context) error {
	entries, err := c.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(c.dir, "export.json"), data, 0o644)
}

func (c *Catalog) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, source_path, context, message_count, imported_at
		 FROM conversations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var entries []ExportEntry
	for rows.Next() {
		var e ExportEntry
		if err := rows.Scan(&e.ID, &e.SourcePath, &e.Context, &e.MessageCount, &e.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		turns, err := c.conversationTurns(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Messages = turns
	}

	return entries, nil
}

func (c *Catalog) conversationTurns(ctx context.Context, convID string) ([]ExportTurn, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT seq, author, body FROM messages WHERE conversation_id = ? ORDER BY seq`, convID)
	if err != nil {
		return nil, fmt.Errorf("querying messages for %s: %w", convID, err)
	}
	defer rows.Close()

	var turns []ExportTurn
	for rows.Next() {
		var t ExportTurn
		if err := rows.Scan(&t.Seq, &t.Author, &t.Body); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

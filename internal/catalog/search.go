// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Options holds parameters for catalog searches.
type Options struct {
	// Query is the FTS5 full-text search string over message bodies.
	Query string

	// Author filters by resolved author label.
	Author string

	// ConversationID filters by conversation.
	ConversationID string

	// MaxResults limits result count. Zero uses the catalog default.
	MaxResults int
}

// IsEmpty reports whether the search has no terms or filters.
func (o Options) IsEmpty() bool {
	return o.Query == "" && o.Author == "" && o.ConversationID == ""
}

// Hit is one matching message with its conversation provenance.
type Hit struct {
	ConversationID string `json:"conversation_id" yaml:"conversation_id"`
	Seq            int    `json:"seq" yaml:"seq"`
	Author         string `json:"author" yaml:"author"`
	Body           string `json:"body" yaml:"body"`
	SourcePath     string `json:"source_path" yaml:"source_path"`
}

// Search queries the catalog with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are sorted
// by conversation and sequence.
func (c *Catalog) Search(ctx context.Context, opts Options) ([]Hit, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT m.conversation_id, m.seq, m.author, m.body, v.source_path
			FROM messages_fts
			JOIN messages m ON m.rowid = messages_fts.rowid
			JOIN conversations v ON m.conversation_id = v.id
			WHERE messages_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT m.conversation_id, m.seq, m.author, m.body, v.source_path
			FROM messages m
			JOIN conversations v ON m.conversation_id = v.id
			WHERE 1=1`)
	}

	if opts.Author != "" {
		qb.WriteString(` AND m.author = ?`)
		args = append(args, opts.Author)
	}

	if opts.ConversationID != "" {
		qb.WriteString(` AND m.conversation_id = ?`)
		args = append(args, opts.ConversationID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY messages_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY m.conversation_id, m.seq`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := c.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ConversationID, &h.Seq, &h.Author, &h.Body, &h.SourcePath); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

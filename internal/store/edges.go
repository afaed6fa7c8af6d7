package store

import (
	"context"
	"fmt"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
)

// EdgeParams selects the adjacency evidence of one corpus version.
type EdgeParams struct {
	Name     string
	Version  int            // 0 means latest
	Category model.Category // empty means both
	Morpheme string         // only edges touching this morpheme
}

// Edges returns the stored adjacency evidence, prefixes first, in the
// order each pair was first observed.
func (s *SQLiteStore) Edges(ctx context.Context, p EdgeParams) ([]position.Edge, error) {
	if p.Category != "" && !p.Category.IsAffix() {
		return nil, fmt.Errorf("invalid category %q (valid: prefix, suffix)", p.Category)
	}

	id, err := s.resolveCorpusID(ctx, p.Name, p.Version)
	if err != nil {
		return nil, err
	}

	query := `SELECT category, from_mid, to_mid, occurrences FROM affix_edges WHERE corpus_id = ?`
	args := []interface{}{id}
	if p.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(p.Category))
	}
	if p.Morpheme != "" {
		query += ` AND (from_mid = ? OR to_mid = ?)`
		args = append(args, p.Morpheme, p.Morpheme)
	}
	query += ` ORDER BY CASE category WHEN 'prefix' THEN 0 ELSE 1 END, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []position.Edge
	for rows.Next() {
		var e position.Edge
		var cat string
		if err := rows.Scan(&cat, &e.From, &e.To, &e.Count); err != nil {
			return nil, err
		}
		e.Category = model.Category(cat)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// resolveCorpusID finds the row ID of a live corpus version.
func (s *SQLiteStore) resolveCorpusID(ctx context.Context, name string, version int) (string, error) {
	var id string
	var err error
	if version > 0 {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM corpora WHERE name = ? AND version = ? AND deleted_at IS NULL`,
			name, version).Scan(&id)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM corpora WHERE name = ? AND deleted_at IS NULL
			 ORDER BY version DESC LIMIT 1`, name).Scan(&id)
	}
	if err != nil {
		return "", fmt.Errorf("corpus %s: %w", versionLabel(name, version), ErrNotFound)
	}
	return id, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/gafaws/internal/model"
)

// SearchParams holds parameters for searching morphemes.
type SearchParams struct {
	Name     string // restrict to one corpus
	Query    string
	Category model.Category
	Limit    int
}

// SearchResult is a morpheme together with the corpus version holding it.
type SearchResult struct {
	Corpus  string `json:"corpus"`
	Version int    `json:"version"`
	model.Morpheme
}

// Search finds morphemes whose ID, form or gloss contains the query, looking
// only at the latest version of each corpus.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"

	where := []string{"c.deleted_at IS NULL"}
	var args []interface{}

	if p.Name != "" {
		where = append(where, "c.name = ?")
		args = append(args, p.Name)
	}
	if p.Category != "" {
		where = append(where, "m.category = ?")
		args = append(args, string(p.Category))
	}

	stmt := fmt.Sprintf(`
		SELECT c.name, c.version, m.mid, m.category, m.form, m.gloss, m.start_class, m.end_class
		FROM morphemes m
		INNER JOIN corpora c ON c.id = m.corpus_id
		INNER JOIN (
			SELECT name, MAX(version) AS max_ver
			FROM corpora WHERE deleted_at IS NULL
			GROUP BY name
		) latest ON c.name = latest.name AND c.version = latest.max_ver
		WHERE %s AND (m.mid LIKE ? OR m.form LIKE ? OR m.gloss LIKE ?)
		ORDER BY c.name, m.seq
		LIMIT ?`, strings.Join(where, " AND "))

	args = append(args, query, query, query, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var cat string
		var form, gloss, start, end sql.NullString
		if err := rows.Scan(&r.Corpus, &r.Version, &r.ID, &cat, &form, &gloss, &start, &end); err != nil {
			return nil, err
		}
		r.Category = model.Category(cat)
		r.Form, r.Gloss, r.StartClass, r.EndClass = form.String, gloss.String, start.String, end.String
		results = append(results, r)
	}
	return results, rows.Err()
}

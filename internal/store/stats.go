package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string        `json:"db_path"`
	DBSizeBytes     int64         `json:"db_size_bytes"`
	TotalVersions   int           `json:"total_versions"`
	ActiveVersions  int           `json:"active_versions"`
	AnalyzedLatest  int           `json:"analyzed_latest"`
	TotalMorphemes  int           `json:"total_morphemes"`
	TotalChallenges int           `json:"total_challenges"`
	Corpora         []CorpusStats `json:"corpora"`
}

// CorpusStats holds per-name counts.
type CorpusStats struct {
	Name     string `json:"name"`
	Versions int    `json:"versions"`
	Words    int    `json:"words"`
	Classes  int    `json:"classes"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM corpora`).Scan(&st.TotalVersions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM corpora WHERE deleted_at IS NULL`).Scan(&st.ActiveVersions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM morphemes`).Scan(&st.TotalMorphemes)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&st.TotalChallenges)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, latest.versions, c.word_count, c.class_count, c.analyzed_at IS NOT NULL
		FROM corpora c
		INNER JOIN (
			SELECT name, MAX(version) AS max_ver, COUNT(*) AS versions
			FROM corpora WHERE deleted_at IS NULL
			GROUP BY name
		) latest ON c.name = latest.name AND c.version = latest.max_ver
		WHERE c.deleted_at IS NULL
		ORDER BY c.name`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs CorpusStats
		var analyzed bool
		rows.Scan(&cs.Name, &cs.Versions, &cs.Words, &cs.Classes, &analyzed)
		if analyzed {
			st.AnalyzedLatest++
		}
		st.Corpora = append(st.Corpora, cs)
	}

	return st, nil
}

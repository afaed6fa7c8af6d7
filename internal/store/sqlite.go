package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/gafaws/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS corpora (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		version         INTEGER NOT NULL DEFAULT 1,
		supersedes      TEXT,
		source          TEXT,
		created_at      TEXT NOT NULL,
		analyzed_at     TEXT,
		deleted_at      TEXT,
		word_count      INTEGER NOT NULL DEFAULT 0,
		morpheme_count  INTEGER NOT NULL DEFAULT 0,
		class_count     INTEGER NOT NULL DEFAULT 0,
		challenge_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_corpora_name ON corpora(name, version);
	CREATE INDEX IF NOT EXISTS idx_corpora_created ON corpora(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_corpora_deleted ON corpora(deleted_at);

	CREATE TABLE IF NOT EXISTS morphemes (
		corpus_id   TEXT NOT NULL REFERENCES corpora(id),
		seq         INTEGER NOT NULL,
		mid         TEXT NOT NULL,
		category    TEXT NOT NULL,
		form        TEXT,
		gloss       TEXT,
		start_class TEXT,
		end_class   TEXT,
		PRIMARY KEY (corpus_id, mid)
	);

	CREATE TABLE IF NOT EXISTS words (
		corpus_id TEXT NOT NULL REFERENCES corpora(id),
		seq       INTEGER NOT NULL,
		wrid      TEXT,
		stem      TEXT NOT NULL,
		prefixes  TEXT,
		suffixes  TEXT,
		PRIMARY KEY (corpus_id, seq)
	);

	CREATE TABLE IF NOT EXISTS classes (
		corpus_id TEXT NOT NULL REFERENCES corpora(id),
		category  TEXT NOT NULL,
		seq       INTEGER NOT NULL,
		clid      TEXT NOT NULL,
		name      TEXT,
		ordinal   INTEGER NOT NULL,
		is_fog    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (corpus_id, clid)
	);

	CREATE TABLE IF NOT EXISTS challenges (
		id        TEXT PRIMARY KEY,
		corpus_id TEXT NOT NULL REFERENCES corpora(id),
		seq       INTEGER NOT NULL,
		category  TEXT NOT NULL,
		message   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_challenges_corpus ON challenges(corpus_id);

	CREATE TABLE IF NOT EXISTS affix_edges (
		corpus_id   TEXT NOT NULL REFERENCES corpora(id),
		category    TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		from_mid    TEXT NOT NULL,
		to_mid      TEXT NOT NULL,
		occurrences INTEGER NOT NULL,
		PRIMARY KEY (corpus_id, category, from_mid, to_mid)
	);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON affix_edges(corpus_id, to_mid);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*CorpusInfo, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("corpus name is required")
	}
	if p.Corpus == nil {
		return nil, fmt.Errorf("corpus is required")
	}
	c := p.Corpus
	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Check for existing latest version
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM corpora
		 WHERE name = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, p.Name).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	if err == nil {
		version = prevVersion + 1
		supersedes = &prevID
	}

	var analyzedAt *string
	if c.AnalyzedAt != nil {
		a := c.AnalyzedAt.UTC().Format(time.RFC3339Nano)
		analyzedAt = &a
	}
	var source *string
	if p.Source != "" {
		source = &p.Source
	}

	info := &CorpusInfo{
		ID:         id,
		Name:       p.Name,
		Version:    version,
		Source:     p.Source,
		CreatedAt:  now,
		AnalyzedAt: c.AnalyzedAt,
		Words:      len(c.Words),
		Morphemes:  len(c.Morphemes),
		Classes:    len(c.PrefixClasses) + len(c.SuffixClasses),
		Challenges: len(c.Challenges),
	}
	if supersedes != nil {
		info.Supersedes = *supersedes
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO corpora (id, name, version, supersedes, source, created_at, analyzed_at,
		                      word_count, morpheme_count, class_count, challenge_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name, version, supersedes, source, now.Format(time.RFC3339Nano), analyzedAt,
		info.Words, info.Morphemes, info.Classes, info.Challenges)
	if err != nil {
		return nil, fmt.Errorf("insert corpus: %w", err)
	}

	for i, m := range c.Morphemes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO morphemes (corpus_id, seq, mid, category, form, gloss, start_class, end_class)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, m.ID, string(m.Category), nullable(m.Form), nullable(m.Gloss),
			nullable(m.StartClass), nullable(m.EndClass))
		if err != nil {
			return nil, fmt.Errorf("insert morpheme %s: %w", m.ID, err)
		}
	}

	for i, w := range c.Words {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO words (corpus_id, seq, wrid, stem, prefixes, suffixes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, nullable(w.ID), w.Stem, refsJSON(w.Prefixes), refsJSON(w.Suffixes))
		if err != nil {
			return nil, fmt.Errorf("insert word: %w", err)
		}
	}

	for _, cat := range []model.Category{model.Prefix, model.Suffix} {
		for i, cl := range c.Classes(cat) {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO classes (corpus_id, category, seq, clid, name, ordinal, is_fog)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, string(cat), i, cl.ID, nullable(cl.Name), cl.Ordinal, cl.IsFog)
			if err != nil {
				return nil, fmt.Errorf("insert class %s: %w", cl.ID, err)
			}
		}
	}

	for i, ch := range c.Challenges {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO challenges (id, corpus_id, seq, category, message) VALUES (?, ?, ?, ?, ?)`,
			s.newID(), id, i, string(ch.Category), ch.Message)
		if err != nil {
			return nil, fmt.Errorf("insert challenge: %w", err)
		}
	}

	for i, e := range p.Edges {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO affix_edges (corpus_id, category, seq, from_mid, to_mid, occurrences)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (corpus_id, category, from_mid, to_mid) DO UPDATE SET occurrences = occurrences + excluded.occurrences`,
			id, string(e.Category), i, e.From, e.To, e.Count)
		if err != nil {
			return nil, fmt.Errorf("insert edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return info, nil
}

const corpusColumns = `id, name, version, supersedes, source, created_at, analyzed_at, deleted_at,
	word_count, morpheme_count, class_count, challenge_count`

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]CorpusInfo, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + corpusColumns + ` FROM corpora
				 WHERE name = ? AND deleted_at IS NULL ORDER BY version DESC`
		args = []interface{}{p.Name}
	} else if p.Version > 0 {
		query = `SELECT ` + corpusColumns + ` FROM corpora
				 WHERE name = ? AND version = ? AND deleted_at IS NULL LIMIT 1`
		args = []interface{}{p.Name, p.Version}
	} else {
		query = `SELECT ` + corpusColumns + ` FROM corpora
				 WHERE name = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.Name}
	}

	infos, err := s.queryInfos(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("corpus %s: %w", versionLabel(p.Name, p.Version), ErrNotFound)
	}
	return infos, nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string, version int) (*model.Corpus, *CorpusInfo, error) {
	infos, err := s.Get(ctx, GetParams{Name: name, Version: version})
	if err != nil {
		return nil, nil, err
	}
	info := infos[0]
	c := &model.Corpus{AnalyzedAt: info.AnalyzedAt}

	rows, err := s.db.QueryContext(ctx,
		`SELECT mid, category, form, gloss, start_class, end_class
		 FROM morphemes WHERE corpus_id = ? ORDER BY seq`, info.ID)
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var m model.Morpheme
		var cat string
		var form, gloss, start, end sql.NullString
		if err := rows.Scan(&m.ID, &cat, &form, &gloss, &start, &end); err != nil {
			rows.Close()
			return nil, nil, err
		}
		m.Category = model.Category(cat)
		m.Form, m.Gloss, m.StartClass, m.EndClass = form.String, gloss.String, start.String, end.String
		c.Morphemes = append(c.Morphemes, m)
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, fmt.Errorf("load morphemes: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT wrid, stem, prefixes, suffixes FROM words WHERE corpus_id = ? ORDER BY seq`, info.ID)
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var w model.WordRecord
		var wrid, prefixes, suffixes sql.NullString
		if err := rows.Scan(&wrid, &w.Stem, &prefixes, &suffixes); err != nil {
			rows.Close()
			return nil, nil, err
		}
		w.ID = wrid.String
		if prefixes.Valid {
			if err := json.Unmarshal([]byte(prefixes.String), &w.Prefixes); err != nil {
				rows.Close()
				return nil, nil, fmt.Errorf("word %s prefixes: %w", w.ID, err)
			}
		}
		if suffixes.Valid {
			if err := json.Unmarshal([]byte(suffixes.String), &w.Suffixes); err != nil {
				rows.Close()
				return nil, nil, fmt.Errorf("word %s suffixes: %w", w.ID, err)
			}
		}
		c.Words = append(c.Words, w)
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, fmt.Errorf("load words: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT category, clid, name, ordinal, is_fog FROM classes
		 WHERE corpus_id = ? ORDER BY category, seq`, info.ID)
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var cat string
		var name sql.NullString
		var cl model.Class
		if err := rows.Scan(&cat, &cl.ID, &name, &cl.Ordinal, &cl.IsFog); err != nil {
			rows.Close()
			return nil, nil, err
		}
		cl.Name = name.String
		switch model.Category(cat) {
		case model.Prefix:
			c.PrefixClasses = append(c.PrefixClasses, cl)
		case model.Suffix:
			c.SuffixClasses = append(c.SuffixClasses, cl)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, fmt.Errorf("load classes: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT category, message FROM challenges WHERE corpus_id = ? ORDER BY seq`, info.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ch model.Challenge
		var cat string
		if err := rows.Scan(&cat, &ch.Message); err != nil {
			return nil, nil, err
		}
		ch.Category = model.Category(cat)
		c.Challenges = append(c.Challenges, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return c, &info, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]CorpusInfo, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	analyzed := ""
	if p.Analyzed {
		analyzed = "AND c.analyzed_at IS NOT NULL"
	}

	query := `
		SELECT c.id, c.name, c.version, c.supersedes, c.source, c.created_at, c.analyzed_at, c.deleted_at,
		       c.word_count, c.morpheme_count, c.class_count, c.challenge_count
		FROM corpora c
		INNER JOIN (
			SELECT name, MAX(version) AS max_ver
			FROM corpora WHERE deleted_at IS NULL
			GROUP BY name
		) latest ON c.name = latest.name AND c.version = latest.max_ver
		WHERE c.deleted_at IS NULL ` + analyzed + `
		ORDER BY c.created_at DESC
		LIMIT ?`

	return s.queryInfos(ctx, query, limit)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if p.Hard {
		var ids []string
		if p.AllVersions {
			infos, err := s.queryInfos(ctx,
				`SELECT `+corpusColumns+` FROM corpora WHERE name = ?`, p.Name)
			if err != nil {
				return err
			}
			for _, i := range infos {
				ids = append(ids, i.ID)
			}
		} else {
			var id string
			err := s.db.QueryRowContext(ctx,
				`SELECT id FROM corpora WHERE name = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
				p.Name).Scan(&id)
			if err == nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("corpus %s: %w", p.Name, ErrNotFound)
		}
		return s.hardDelete(ctx, ids)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE corpora SET deleted_at = ? WHERE name = ? AND deleted_at IS NULL`,
			now, p.Name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("corpus %s: %w", p.Name, ErrNotFound)
		}
		return nil
	}

	// Soft-delete latest version only
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM corpora WHERE name = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		p.Name).Scan(&id)
	if err != nil {
		return fmt.Errorf("corpus %s: %w", p.Name, ErrNotFound)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE corpora SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) hardDelete(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		for _, table := range []string{"affix_edges", "challenges", "classes", "words", "morphemes"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE corpus_id = ?`, id); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM corpora WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete corpus: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryInfos(ctx context.Context, query string, args ...interface{}) ([]CorpusInfo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []CorpusInfo
	for rows.Next() {
		i, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, i)
	}
	return infos, rows.Err()
}

// closeRows closes rows and reports any error hit during iteration.
func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	rows.Close()
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInfo(row scanner) (CorpusInfo, error) {
	var i CorpusInfo
	var supersedes, source, analyzedAt, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&i.ID, &i.Name, &i.Version, &supersedes, &source, &createdAt, &analyzedAt, &deletedAt,
		&i.Words, &i.Morphemes, &i.Classes, &i.Challenges,
	)
	if err != nil {
		return i, err
	}

	i.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	i.Supersedes = supersedes.String
	i.Source = source.String
	if analyzedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, analyzedAt.String)
		i.AnalyzedAt = &t
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, deletedAt.String)
		i.DeletedAt = &t
	}
	return i, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func refsJSON(refs []string) *string {
	if len(refs) == 0 {
		return nil
	}
	b, _ := json.Marshal(refs)
	s := string(b)
	return &s
}

func versionLabel(name string, version int) string {
	if version > 0 {
		return fmt.Sprintf("%s@%d", name, version)
	}
	return name
}

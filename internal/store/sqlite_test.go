package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCorpus() *model.Corpus {
	return &model.Corpus{
		Morphemes: []model.Morpheme{
			{ID: "walk", Category: model.Stem, Form: "walk"},
			{ID: "un-", Category: model.Prefix, Form: "un", Gloss: "NEG"},
			{ID: "-ed", Category: model.Suffix, Form: "ed", Gloss: "PST"},
			{ID: "-s", Category: model.Suffix, Form: "s"},
		},
		Words: []model.WordRecord{
			{ID: "W1", Prefixes: []string{"un-"}, Stem: "walk", Suffixes: []string{"-ed"}},
			{ID: "W2", Stem: "walk", Suffixes: []string{"-ed", "-s"}},
			{ID: "W3", Stem: "walk"},
		},
	}
}

func analyzedCorpus(t *testing.T) *model.Corpus {
	t.Helper()
	c := testCorpus()
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := position.New(position.WithClock(func() time.Time { return stamp })).Analyze(c); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return c
}

func TestPutAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := analyzedCorpus(t)
	c.Challenges = append(c.Challenges, model.Challenge{Category: model.Suffix, Message: position.MsgSuffixFog})

	info, err := s.Put(ctx, PutParams{Name: "english", Source: "en.txt", Corpus: c})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Version != 1 {
		t.Errorf("expected version 1, got %d", info.Version)
	}
	if info.ID == "" {
		t.Error("expected non-empty ID")
	}
	if info.Words != 3 || info.Morphemes != 4 || info.Classes != 3 || info.Challenges != 1 {
		t.Errorf("unexpected counts %+v", info)
	}

	got, gotInfo, err := s.Load(ctx, "english", 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotInfo.Source != "en.txt" {
		t.Errorf("expected source en.txt, got %q", gotInfo.Source)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("loaded corpus differs (-want +got):\n%s", diff)
	}
}

func TestVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	v2, _ := s.Put(ctx, PutParams{Name: "c", Corpus: analyzedCorpus(t)})

	if v2.Version != 2 {
		t.Errorf("expected version 2, got %d", v2.Version)
	}
	if v2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	// Latest
	latest, _, err := s.Load(ctx, "c", 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if latest.AnalyzedAt == nil {
		t.Error("expected latest version to be analyzed")
	}

	// History
	hist, _ := s.Get(ctx, GetParams{Name: "c", History: true})
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}
	if hist[0].Version != 2 {
		t.Errorf("expected newest first, got version %d", hist[0].Version)
	}

	// Specific version
	v1, _, err := s.Load(ctx, "c", 1)
	if err != nil {
		t.Fatalf("load v1: %v", err)
	}
	if v1.AnalyzedAt != nil || len(v1.SuffixClasses) != 0 {
		t.Error("expected version 1 to be unanalyzed")
	}
}

func TestPutRequiresNameAndCorpus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Put(ctx, PutParams{Corpus: testCorpus()}); err == nil {
		t.Error("expected error without name")
	}
	if _, err := s.Put(ctx, PutParams{Name: "x"}); err == nil {
		t.Error("expected error without corpus")
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, GetParams{Name: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, _, err = s.Load(ctx, "missing", 3)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Name: "a", Corpus: testCorpus()})
	s.Put(ctx, PutParams{Name: "a", Corpus: analyzedCorpus(t)})
	s.Put(ctx, PutParams{Name: "b", Corpus: testCorpus()})

	all, _ := s.List(ctx, ListParams{})
	if len(all) != 2 {
		t.Fatalf("expected 2 (latest only), got %d", len(all))
	}

	analyzed, _ := s.List(ctx, ListParams{Analyzed: true})
	if len(analyzed) != 1 || analyzed[0].Name != "a" || analyzed[0].Version != 2 {
		t.Errorf("expected only a@2, got %+v", analyzed)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	if err := s.Rm(ctx, RmParams{Name: "c"}); err != nil {
		t.Fatalf("rm: %v", err)
	}

	if _, err := s.Get(ctx, GetParams{Name: "c"}); err == nil {
		t.Error("expected error after soft delete")
	}
	if err := s.Rm(ctx, RmParams{Name: "c"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second rm, got %v", err)
	}
}

func TestHardDeleteAllVersions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	s.Put(ctx, PutParams{Name: "c", Corpus: analyzedCorpus(t), Edges: position.Edges(testCorpus())})

	if err := s.Rm(ctx, RmParams{Name: "c", Hard: true, AllVersions: true}); err != nil {
		t.Fatalf("rm hard: %v", err)
	}

	var n int
	for _, table := range []string{"corpora", "morphemes", "words", "classes", "affix_edges"} {
		s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
		if n != 0 {
			t.Errorf("expected %s to be empty, has %d rows", table, n)
		}
	}
}

func TestHardDeleteLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	s.Put(ctx, PutParams{Name: "c", Corpus: analyzedCorpus(t)})

	if err := s.Rm(ctx, RmParams{Name: "c", Hard: true}); err != nil {
		t.Fatalf("rm hard: %v", err)
	}
	infos, err := s.Get(ctx, GetParams{Name: "c"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if infos[0].Version != 1 {
		t.Errorf("expected version 1 to remain, got %d", infos[0].Version)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s2.Close()

	s2.Put(ctx, PutParams{Name: "a", Corpus: testCorpus()})
	s2.Put(ctx, PutParams{Name: "a", Corpus: analyzedCorpus(t)})
	s2.Put(ctx, PutParams{Name: "b", Corpus: testCorpus()})

	st, err := s2.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalVersions != 3 || st.ActiveVersions != 3 {
		t.Errorf("unexpected version counts %+v", st)
	}
	if st.AnalyzedLatest != 1 {
		t.Errorf("expected 1 analyzed corpus, got %d", st.AnalyzedLatest)
	}
	if len(st.Corpora) != 2 || st.Corpora[0].Name != "a" || st.Corpora[0].Versions != 2 {
		t.Errorf("unexpected per-corpus stats %+v", st.Corpora)
	}
	if st.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestLoadCorruptWordRefs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, col := range []string{"prefixes", "suffixes"} {
		t.Run(col, func(t *testing.T) {
			info, err := s.Put(ctx, PutParams{Name: col, Corpus: testCorpus()})
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := s.db.ExecContext(ctx,
				`UPDATE words SET `+col+` = 'x' WHERE corpus_id = ? AND wrid = 'W1'`, info.ID); err != nil {
				t.Fatalf("corrupt row: %v", err)
			}

			c, _, err := s.Load(ctx, col, 0)
			if err == nil {
				t.Fatalf("expected error loading corrupt %s, got %+v", col, c.Words)
			}
		})
	}
}

package store

import (
	"context"
	"testing"

	"github.com/rcliao/gafaws/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Name: "english", Corpus: analyzedCorpus(t)})
	s.Put(ctx, PutParams{Name: "other", Corpus: testCorpus()})

	// Match on gloss
	results, err := s.Search(ctx, SearchParams{Query: "PST"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Corpus filter
	results, err = s.Search(ctx, SearchParams{Name: "english", Query: "PST"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "-ed" || results[0].StartClass != "SP1" {
		t.Errorf("unexpected result %+v", results[0])
	}
}

func TestSearch_CategoryAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Name: "english", Corpus: testCorpus()})

	// "-" matches every affix id
	results, _ := s.Search(ctx, SearchParams{Query: "-", Category: model.Suffix})
	if len(results) != 2 {
		t.Fatalf("expected 2 suffixes, got %d", len(results))
	}
	for _, r := range results {
		if r.Category != model.Suffix {
			t.Errorf("expected suffix, got %s", r.Category)
		}
	}

	results, _ = s.Search(ctx, SearchParams{Query: "-", Limit: 1})
	if len(results) != 1 {
		t.Errorf("expected limit 1, got %d", len(results))
	}
}

func TestSearch_LatestVersionOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	s.Put(ctx, PutParams{Name: "c", Corpus: analyzedCorpus(t)})

	results, _ := s.Search(ctx, SearchParams{Query: "walk"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Version != 2 {
		t.Errorf("expected version 2, got %d", results[0].Version)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Name: "c", Corpus: testCorpus()})
	results, err := s.Search(ctx, SearchParams{Query: "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

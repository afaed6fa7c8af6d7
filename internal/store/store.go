// Package store provides versioned corpus storage and its SQLite
// implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
)

// ErrNotFound is returned when no live corpus matches a lookup.
var ErrNotFound = errors.New("not found")

// CorpusInfo describes one stored corpus version.
type CorpusInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	Source     string     `json:"source,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Words      int        `json:"words"`
	Morphemes  int        `json:"morphemes"`
	Classes    int        `json:"classes"`
	Challenges int        `json:"challenges"`
}

// PutParams holds parameters for storing a corpus.
type PutParams struct {
	Name   string
	Source string // where the corpus came from, e.g. a file path
	Corpus *model.Corpus
	Edges  []position.Edge // adjacency evidence, optional
}

// GetParams holds parameters for looking up corpus versions.
type GetParams struct {
	Name    string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing corpora.
type ListParams struct {
	Limit    int
	Analyzed bool // only corpora with a completion stamp
}

// RmParams holds parameters for deleting a corpus.
type RmParams struct {
	Name        string
	AllVersions bool
	Hard        bool
}

// Store defines the corpus storage interface.
type Store interface {
	// Put stores a corpus as the next version of Name.
	Put(ctx context.Context, p PutParams) (*CorpusInfo, error)

	// Get describes versions of a corpus (newest first with History=true).
	Get(ctx context.Context, p GetParams) ([]CorpusInfo, error)

	// Load reads a full corpus version.
	Load(ctx context.Context, name string, version int) (*model.Corpus, *CorpusInfo, error)

	// List lists the latest version of each corpus.
	List(ctx context.Context, p ListParams) ([]CorpusInfo, error)

	// Rm soft-deletes (or hard-deletes) a corpus.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}

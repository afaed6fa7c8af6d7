package store

import (
	"context"
	"fmt"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
)

// Export is one stored corpus version with its contents.
type Export struct {
	Info   CorpusInfo      `json:"info"`
	Corpus *model.Corpus   `json:"corpus"`
	Edges  []position.Edge `json:"edges,omitempty"`
}

// ExportAll returns every live corpus version, optionally filtered by name,
// oldest version first.
func (s *SQLiteStore) ExportAll(ctx context.Context, name string) ([]Export, error) {
	query := `SELECT ` + corpusColumns + ` FROM corpora WHERE deleted_at IS NULL`
	var args []interface{}
	if name != "" {
		query += ` AND name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY name, version`

	infos, err := s.queryInfos(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var out []Export
	for _, info := range infos {
		c, _, err := s.Load(ctx, info.Name, info.Version)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", versionLabel(info.Name, info.Version), err)
		}
		edges, err := s.Edges(ctx, EdgeParams{Name: info.Name, Version: info.Version})
		if err != nil {
			return nil, err
		}
		out = append(out, Export{Info: info, Corpus: c, Edges: edges})
	}
	return out, nil
}

// Import stores exported corpora as new versions under their names.
func (s *SQLiteStore) Import(ctx context.Context, exports []Export) (int, error) {
	imported := 0
	for _, e := range exports {
		if e.Corpus == nil {
			return imported, fmt.Errorf("import %s: missing corpus", e.Info.Name)
		}
		if err := e.Corpus.Validate(); err != nil {
			return imported, fmt.Errorf("import %s: %w", e.Info.Name, err)
		}
		_, err := s.Put(ctx, PutParams{
			Name:   e.Info.Name,
			Source: e.Info.Source,
			Corpus: e.Corpus,
			Edges:  e.Edges,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

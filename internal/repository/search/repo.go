package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/piecedex/internal/db"
	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	"github.com/kailas-cloud/piecedex/internal/repository/collection"
)

// engine is the consumer interface for search operations (ISP).
type engine interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context, index string, q *db.Query) (int, error)
	Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	engine engine
	prefix string
}

// New creates a search repository. prefix must match the collection repository.
func New(e engine, prefix string) *Repo {
	return &Repo{engine: e, prefix: prefix}
}

// Exists reports whether the collection has an index.
func (r *Repo) Exists(ctx context.Context, collectionID int64) (bool, error) {
	name := collection.IndexName(r.prefix, collectionID)
	ok, err := r.engine.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: check index %s: %w", domain.ErrEngine, name, err)
	}
	return ok, nil
}

// Count returns the number of entries matching q, ignoring pagination.
func (r *Repo) Count(ctx context.Context, collectionID int64, q request.Query) (int, error) {
	name := collection.IndexName(r.prefix, collectionID)
	n, err := r.engine.Count(ctx, name, Compile(q))
	if err != nil {
		return 0, fmt.Errorf("%w: count %s: %w", domain.ErrEngine, name, err)
	}
	return n, nil
}

// Search returns the page of hits selected by q's pagination.
func (r *Repo) Search(ctx context.Context, collectionID int64, q request.Query) ([]result.Hit, error) {
	name := collection.IndexName(r.prefix, collectionID)
	sr, err := r.engine.Search(ctx, name, Compile(q))
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %w", domain.ErrEngine, name, err)
	}
	if sr == nil {
		return nil, nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		tp, err := decodePiece(e.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s of %s: %w", domain.ErrEngine, e.ID, name, err)
		}
		hits = append(hits, result.NewHit(tp, e.Score))
	}
	return hits, nil
}

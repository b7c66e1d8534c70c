package search

import (
	"context"

	"github.com/kailas-cloud/piecedex/internal/db"
)

// mockEngine implements the consumer interface for tests.
type mockEngine struct {
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	countFn       func(ctx context.Context, index string, q *db.Query) (int, error)
	searchFn      func(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error)
}

func (m *mockEngine) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockEngine) Count(ctx context.Context, index string, q *db.Query) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index, q)
	}
	return 0, nil
}

func (m *mockEngine) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, q)
	}
	return &db.SearchResult{}, nil
}

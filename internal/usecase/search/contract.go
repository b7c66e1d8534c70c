package search

import (
	"context"

	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
)

// Repository defines the engine contract for search operations.
type Repository interface {
	Exists(ctx context.Context, collectionID int64) (bool, error)
	Count(ctx context.Context, collectionID int64, q request.Query) (int, error)
	Search(ctx context.Context, collectionID int64, q request.Query) ([]result.Hit, error)
}

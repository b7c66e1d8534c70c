package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	"github.com/kailas-cloud/piecedex/internal/logger"
	"github.com/kailas-cloud/piecedex/internal/metrics"
)

// Service runs filtered, paginated searches over a collection.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns one page of hits with the total number of matches.
// Total and page come from separate round trips and may disagree under
// concurrent reindexing.
func (s *Service) Search(ctx context.Context, collectionID int64, q request.Query) (page result.Page, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.SearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	ok, err := s.repo.Exists(ctx, collectionID)
	if err != nil {
		return result.Page{}, fmt.Errorf("check collection %d: %w", collectionID, err)
	}
	if !ok {
		return result.Page{}, fmt.Errorf("collection %d: %w", collectionID, domain.ErrCollectionNotFound)
	}

	total, err := s.repo.Count(ctx, collectionID, q)
	if err != nil {
		return result.Page{}, fmt.Errorf("count: %w", err)
	}

	hits, err := s.repo.Search(ctx, collectionID, q)
	if err != nil {
		return result.Page{}, fmt.Errorf("search: %w", err)
	}

	logger.FromContext(ctx).Debug("Search executed",
		zap.Int64("collection_id", collectionID),
		zap.Int("filters", len(q.Filters())),
		zap.Int("total", total),
		zap.Int("hits", len(hits)),
	)
	return result.NewPage(q.Pagination(), total, hits), nil
}

package piecedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain"
)

// CollectionService rebuilds and queries one document's search collection.
type CollectionService struct {
	id        int64
	indexSvc  indexUseCase
	searchSvc searchUseCase
	obs       *observer
}

// Reindex replaces the collection content with the document's current
// pieces and marks them indexed.
func (s *CollectionService) Reindex(ctx context.Context) (_ ReindexReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("reindex", start, err, "collection_id", s.id) }()

	r, err := s.indexSvc.IndexDocument(ctx, s.id)
	if err != nil {
		return ReindexReport{}, fmt.Errorf("reindex: %w", err)
	}
	return fromInternalReport(r), nil
}

// Search returns one page of pieces matching every filter.
func (s *CollectionService) Search(ctx context.Context, req SearchRequest) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err, "collection_id", s.id) }()

	q, err := toInternalQuery(req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", domain.Invalid(err))
	}
	page, err := s.searchSvc.Search(ctx, s.id, q)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalPage(page), nil
}

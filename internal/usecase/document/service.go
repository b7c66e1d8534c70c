package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	"github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	"github.com/kailas-cloud/piecedex/internal/logger"
)

// Service handles document CRUD.
type Service struct {
	repo  Repository
	colls CollectionDropper
}

// New creates a document service.
func New(repo Repository, colls CollectionDropper) *Service {
	return &Service{repo: repo, colls: colls}
}

// Create validates and stores a new document.
func (s *Service) Create(ctx context.Context, name, author string) (domdoc.Document, error) {
	doc, err := domdoc.New(name, author)
	if err != nil {
		return domdoc.Document{}, domain.Invalid(err)
	}
	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

// Get returns a document by id.
func (s *Service) Get(ctx context.Context, id int64) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

// Patch applies a partial update.
func (s *Service) Patch(ctx context.Context, id int64, p patch.Patch) (domdoc.Document, error) {
	doc, err := s.repo.Patch(ctx, id, p)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("patch document %d: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document with its pieces. The search collection is dropped
// first so a failure leaves the stored document in place.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get document %d: %w", id, err)
	}
	if err := s.colls.Drop(ctx, id); err != nil {
		return fmt.Errorf("drop collection %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	logger.FromContext(ctx).Info("Document deleted", zap.Int64("document_id", id))
	return nil
}

package piecedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/document/patch"
)

// DocumentService manages documents.
type DocumentService struct {
	svc documentUseCase
	obs *observer
}

// Create stores a new document. Names are unique.
func (s *DocumentService) Create(ctx context.Context, name, author string) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document_create", start, err) }()

	d, err := s.svc.Create(ctx, name, author)
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Get retrieves a document by id.
func (s *DocumentService) Get(ctx context.Context, id int64) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document_get", start, err) }()

	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// SetAuthor changes the document author, the only mutable attribute.
func (s *DocumentService) SetAuthor(ctx context.Context, id int64, author string) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document_patch", start, err) }()

	p, err := patch.New(&author)
	if err != nil {
		return Document{}, fmt.Errorf("patch document: %w", domain.Invalid(err))
	}
	d, err := s.svc.Patch(ctx, id, p)
	if err != nil {
		return Document{}, fmt.Errorf("patch document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete removes a document, its text pieces and its search collection.
func (s *DocumentService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document_delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

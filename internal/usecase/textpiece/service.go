package textpiece

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
)

// CreateInput carries the raw attributes of a new piece.
type CreateInput struct {
	DocumentName string
	Type         string
	Page         int
	Text         string
	MetaData     map[string]any
}

// Service handles text piece CRUD.
type Service struct {
	repo Repository
}

// New creates a text piece service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new piece. Size is derived from the text.
func (s *Service) Create(ctx context.Context, in CreateInput) (domtp.TextPiece, error) {
	typ, err := domtp.ParseType(in.Type)
	if err != nil {
		return domtp.TextPiece{}, domain.Invalid(err)
	}
	tp, err := domtp.New(in.DocumentName, typ, in.Page, in.Text, in.MetaData)
	if err != nil {
		return domtp.TextPiece{}, domain.Invalid(err)
	}
	created, err := s.repo.Create(ctx, tp)
	if err != nil {
		return domtp.TextPiece{}, fmt.Errorf("create text piece: %w", err)
	}
	return created, nil
}

// Get returns a piece by id.
func (s *Service) Get(ctx context.Context, id int64) (domtp.TextPiece, error) {
	tp, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtp.TextPiece{}, fmt.Errorf("get text piece %d: %w", id, err)
	}
	return tp, nil
}

// Patch applies a partial update.
func (s *Service) Patch(ctx context.Context, id int64, p patch.Patch) (domtp.TextPiece, error) {
	if t := p.Type(); t != nil {
		if _, err := domtp.ParseType(*t); err != nil {
			return domtp.TextPiece{}, domain.Invalid(err)
		}
	}
	tp, err := s.repo.Patch(ctx, id, p)
	if err != nil {
		return domtp.TextPiece{}, fmt.Errorf("patch text piece %d: %w", id, err)
	}
	return tp, nil
}

// Delete removes a piece.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete text piece %d: %w", id, err)
	}
	return nil
}

package piecedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

// TextPieceService manages text pieces.
type TextPieceService struct {
	svc textPieceUseCase
	obs *observer
}

// Create stores a new piece under an existing document.
func (s *TextPieceService) Create(ctx context.Context, in NewTextPiece) (_ TextPiece, err error) {
	start := time.Now()
	defer func() { s.obs.observe("text_piece_create", start, err) }()

	tp, err := s.svc.Create(ctx, textpieceuc.CreateInput{
		DocumentName: in.DocumentName,
		Type:         string(in.Type),
		Page:         in.Page,
		Text:         in.Text,
		MetaData:     in.MetaData,
	})
	if err != nil {
		return TextPiece{}, fmt.Errorf("create text piece: %w", err)
	}
	return fromInternalTextPiece(tp), nil
}

// Get retrieves a piece by id.
func (s *TextPieceService) Get(ctx context.Context, id int64) (_ TextPiece, err error) {
	start := time.Now()
	defer func() { s.obs.observe("text_piece_get", start, err) }()

	tp, err := s.svc.Get(ctx, id)
	if err != nil {
		return TextPiece{}, fmt.Errorf("get text piece: %w", err)
	}
	return fromInternalTextPiece(tp), nil
}

// Patch applies a partial update. Changes reach search after the next Reindex.
func (s *TextPieceService) Patch(ctx context.Context, id int64, p TextPiecePatch) (_ TextPiece, err error) {
	start := time.Now()
	defer func() { s.obs.observe("text_piece_patch", start, err) }()

	tpp, err := toInternalPatch(p)
	if err != nil {
		return TextPiece{}, fmt.Errorf("patch text piece: %w", domain.Invalid(err))
	}
	tp, err := s.svc.Patch(ctx, id, tpp)
	if err != nil {
		return TextPiece{}, fmt.Errorf("patch text piece: %w", err)
	}
	return fromInternalTextPiece(tp), nil
}

// Delete removes a piece.
func (s *TextPieceService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("text_piece_delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete text piece: %w", err)
	}
	return nil
}

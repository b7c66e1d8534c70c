package search

import (
	"encoding/json"
	"fmt"
	"time"

	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// pieceSource is the engine document written at index time.
type pieceSource struct {
	PieceID      int64          `json:"piece_id"`
	MetaData     map[string]any `json:"meta_data"`
	Indexed      bool           `json:"indexed"`
	DocumentName string         `json:"document_name"`
	Size         int            `json:"size"`
	Type         string         `json:"type"`
	Page         int            `json:"page"`
	Text         string         `json:"text"`
	CreatedAt    time.Time      `json:"created_at"`
}

func decodePiece(src []byte) (domtp.TextPiece, error) {
	var s pieceSource
	if err := json.Unmarshal(src, &s); err != nil {
		return domtp.TextPiece{}, fmt.Errorf("decode source: %w", err)
	}
	return domtp.Reconstruct(
		s.PieceID, s.DocumentName, domtp.Type(s.Type), s.Page, s.Text, s.Size,
		s.Indexed, s.MetaData, s.CreatedAt,
	), nil
}

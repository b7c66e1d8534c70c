package indexation

import (
	"context"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// Collections manages the engine index of a collection.
type Collections interface {
	Ensure(ctx context.Context, collectionID int64) error
	Clear(ctx context.Context, collectionID int64) (int, error)
	Populate(ctx context.Context, collectionID int64, pieces []domtp.TextPiece) (int, error)
}

// Pieces reads pieces and records their indexed flag.
type Pieces interface {
	ListByDocumentName(ctx context.Context, name string) ([]domtp.TextPiece, error)
	MarkIndexed(ctx context.Context, ids []int64) error
}

// Documents reads documents.
type Documents interface {
	Get(ctx context.Context, id int64) (domdoc.Document, error)
}

package document

import (
	"context"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	"github.com/kailas-cloud/piecedex/internal/domain/document/patch"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
	Get(ctx context.Context, id int64) (domdoc.Document, error)
	Patch(ctx context.Context, id int64, p patch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id int64) error
}

// CollectionDropper removes the search collection of a document.
type CollectionDropper interface {
	Drop(ctx context.Context, collectionID int64) error
}

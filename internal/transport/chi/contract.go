package chi

import (
	"context"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	docpatch "github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	tppatch "github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
	healthuc "github.com/kailas-cloud/piecedex/internal/usecase/health"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

// DocumentService manages documents.
type DocumentService interface {
	Create(ctx context.Context, name, author string) (domdoc.Document, error)
	Get(ctx context.Context, id int64) (domdoc.Document, error)
	Patch(ctx context.Context, id int64, p docpatch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id int64) error
}

// TextPieceService manages text pieces.
type TextPieceService interface {
	Create(ctx context.Context, in textpieceuc.CreateInput) (domtp.TextPiece, error)
	Get(ctx context.Context, id int64) (domtp.TextPiece, error)
	Patch(ctx context.Context, id int64, p tppatch.Patch) (domtp.TextPiece, error)
	Delete(ctx context.Context, id int64) error
}

// IndexService rebuilds a document's search collection.
type IndexService interface {
	IndexDocument(ctx context.Context, documentID int64) (domidx.Report, error)
}

// SearchService runs queries against a collection.
type SearchService interface {
	Search(ctx context.Context, collectionID int64, q request.Query) (result.Page, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

package textpiece

import (
	"context"

	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
)

// Repository defines the storage contract for text pieces.
type Repository interface {
	Create(ctx context.Context, tp domtp.TextPiece) (domtp.TextPiece, error)
	Get(ctx context.Context, id int64) (domtp.TextPiece, error)
	Patch(ctx context.Context, id int64, p patch.Patch) (domtp.TextPiece, error)
	Delete(ctx context.Context, id int64) error
}

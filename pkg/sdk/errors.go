package piecedex

import (
	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/indexation"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrDocumentNotFound   = domain.ErrDocumentNotFound
	ErrTextPieceNotFound  = domain.ErrTextPieceNotFound
	ErrCollectionNotFound = domain.ErrCollectionNotFound
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrValidation         = domain.ErrValidation
	ErrStore              = domain.ErrStore
	ErrEngine             = domain.ErrEngine
)

// IndexationError describes a failed Reindex. Use errors.As to inspect the
// step that failed and how many items the engine rejected.
type IndexationError = indexation.Error

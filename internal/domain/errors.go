package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals input that violates a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	// ErrTextPieceNotFound signals a missing text piece.
	ErrTextPieceNotFound = fmt.Errorf("text piece %w", ErrNotFound)
	// ErrCollectionNotFound signals a search collection that was never indexed.
	ErrCollectionNotFound = fmt.Errorf("collection %w", ErrNotFound)

	// ErrStore signals a relational store failure.
	ErrStore = errors.New("store error")
	// ErrEngine signals a search engine failure.
	ErrEngine = errors.New("search engine error")
)

// Invalid wraps err as a validation failure, keeping its message.
func Invalid(err error) error {
	if err == nil || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

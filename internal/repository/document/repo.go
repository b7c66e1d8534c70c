package document

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	"github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

// store is the consumer interface over the relational store (ISP).
type store interface {
	Conn(ctx context.Context) (*gorm.DB, context.CancelFunc)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create inserts a document and returns it with its generated id.
func (r *Repo) Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	var n int64
	if err := conn.Model(&sqldb.DocumentRow{}).Where("name = ?", doc.Name()).Count(&n).Error; err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: check document %q: %w", domain.ErrStore, doc.Name(), err)
	}
	if n > 0 {
		return domdoc.Document{}, fmt.Errorf("document %q: %w", doc.Name(), domain.ErrAlreadyExists)
	}

	row := toRow(doc)
	if err := conn.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domdoc.Document{}, fmt.Errorf("document %q: %w", doc.Name(), domain.ErrAlreadyExists)
		}
		return domdoc.Document{}, fmt.Errorf("%w: insert document %q: %w", domain.ErrStore, doc.Name(), err)
	}
	return fromRow(row), nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id int64) (domdoc.Document, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	row, err := load(conn, id)
	if err != nil {
		return domdoc.Document{}, err
	}
	return fromRow(row), nil
}

// Patch applies p to the stored document and returns the result.
func (r *Repo) Patch(ctx context.Context, id int64, p patch.Patch) (domdoc.Document, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	var out domdoc.Document
	err := conn.Transaction(func(tx *gorm.DB) error {
		row, err := load(tx, id)
		if err != nil {
			return err
		}
		updated := fromRow(row).Apply(p)
		if err := tx.Model(&row).Update("author", updated.Author()).Error; err != nil {
			return fmt.Errorf("%w: update document %d: %w", domain.ErrStore, id, err)
		}
		out = updated
		return nil
	})
	if err != nil {
		return domdoc.Document{}, err
	}
	return out, nil
}

// Delete removes a document together with its text pieces.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	return conn.Transaction(func(tx *gorm.DB) error {
		row, err := load(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("document_name = ?", row.Name).Delete(&sqldb.TextPieceRow{}).Error; err != nil {
			return fmt.Errorf("%w: delete pieces of document %d: %w", domain.ErrStore, id, err)
		}
		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("%w: delete document %d: %w", domain.ErrStore, id, err)
		}
		return nil
	})
}

func load(conn *gorm.DB, id int64) (sqldb.DocumentRow, error) {
	var row sqldb.DocumentRow
	if err := conn.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, domain.ErrDocumentNotFound
		}
		return row, fmt.Errorf("%w: load document %d: %w", domain.ErrStore, id, err)
	}
	return row, nil
}

func toRow(d domdoc.Document) sqldb.DocumentRow {
	return sqldb.DocumentRow{ID: d.ID(), Name: d.Name(), Author: d.Author()}
}

func fromRow(row sqldb.DocumentRow) domdoc.Document {
	return domdoc.Reconstruct(row.ID, row.Name, row.Author)
}

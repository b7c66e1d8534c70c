package textpiece

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

// store is the consumer interface over the relational store (ISP).
type store interface {
	Conn(ctx context.Context) (*gorm.DB, context.CancelFunc)
}

// Repo implements usecase/textpiece.Repository and the store side of
// usecase/indexation.
type Repo struct {
	store store
}

// New creates a text piece repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create inserts a piece. The owning document must exist.
func (r *Repo) Create(ctx context.Context, tp domtp.TextPiece) (domtp.TextPiece, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	var out domtp.TextPiece
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := requireDocument(tx, tp.DocumentName()); err != nil {
			return err
		}
		row := toRow(tp)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("%w: insert text piece: %w", domain.ErrStore, err)
		}
		out = fromRow(row)
		return nil
	})
	if err != nil {
		return domtp.TextPiece{}, err
	}
	return out, nil
}

// Get returns a piece by id.
func (r *Repo) Get(ctx context.Context, id int64) (domtp.TextPiece, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	row, err := load(conn, id)
	if err != nil {
		return domtp.TextPiece{}, err
	}
	return fromRow(row), nil
}

// Patch applies p to the stored piece and returns the result.
func (r *Repo) Patch(ctx context.Context, id int64, p patch.Patch) (domtp.TextPiece, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	var out domtp.TextPiece
	err := conn.Transaction(func(tx *gorm.DB) error {
		row, err := load(tx, id)
		if err != nil {
			return err
		}
		updated, err := fromRow(row).Apply(p)
		if err != nil {
			return domain.Invalid(err)
		}
		if updated.DocumentName() != row.DocumentName {
			if err := requireDocument(tx, updated.DocumentName()); err != nil {
				return err
			}
		}
		next := toRow(updated)
		if err := tx.Select("*").Omit("created_at").Save(&next).Error; err != nil {
			return fmt.Errorf("%w: update text piece %d: %w", domain.ErrStore, id, err)
		}
		out = updated
		return nil
	})
	if err != nil {
		return domtp.TextPiece{}, err
	}
	return out, nil
}

// Delete removes a piece.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	res := conn.Delete(&sqldb.TextPieceRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete text piece %d: %w", domain.ErrStore, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTextPieceNotFound
	}
	return nil
}

// ListByDocumentName returns every piece of a document ordered by id.
func (r *Repo) ListByDocumentName(ctx context.Context, name string) ([]domtp.TextPiece, error) {
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	var rows []sqldb.TextPieceRow
	if err := conn.Where("document_name = ?", name).Order("piece_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list pieces of %q: %w", domain.ErrStore, name, err)
	}
	out := make([]domtp.TextPiece, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// MarkIndexed sets indexed=true on the given pieces.
func (r *Repo) MarkIndexed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	conn, cancel := r.store.Conn(ctx)
	defer cancel()

	err := conn.Model(&sqldb.TextPieceRow{}).Where("piece_id IN ?", ids).Update("indexed", true).Error
	if err != nil {
		return fmt.Errorf("%w: mark %d pieces indexed: %w", domain.ErrStore, len(ids), err)
	}
	return nil
}

func requireDocument(tx *gorm.DB, name string) error {
	var n int64
	if err := tx.Model(&sqldb.DocumentRow{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return fmt.Errorf("%w: check document %q: %w", domain.ErrStore, name, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, domain.ErrDocumentNotFound)
	}
	return nil
}

func load(conn *gorm.DB, id int64) (sqldb.TextPieceRow, error) {
	var row sqldb.TextPieceRow
	if err := conn.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, domain.ErrTextPieceNotFound
		}
		return row, fmt.Errorf("%w: load text piece %d: %w", domain.ErrStore, id, err)
	}
	return row, nil
}

func toRow(tp domtp.TextPiece) sqldb.TextPieceRow {
	var meta datatypes.JSONMap
	if len(tp.MetaData()) > 0 {
		meta = datatypes.JSONMap(maps.Clone(tp.MetaData()))
	}
	return sqldb.TextPieceRow{
		ID:           tp.ID(),
		MetaData:     meta,
		Indexed:      tp.Indexed(),
		DocumentName: tp.DocumentName(),
		Size:         tp.Size(),
		Type:         string(tp.Type()),
		Page:         tp.Page(),
		Text:         tp.Text(),
		CreatedAt:    tp.CreatedAt(),
	}
}

func fromRow(row sqldb.TextPieceRow) domtp.TextPiece {
	var meta map[string]any
	if len(row.MetaData) > 0 {
		meta = map[string]any(row.MetaData)
	}
	return domtp.Reconstruct(
		row.ID, row.DocumentName, domtp.Type(row.Type), row.Page, row.Text, row.Size,
		row.Indexed, meta, row.CreatedAt,
	)
}

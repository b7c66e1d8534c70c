package collection

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/kailas-cloud/piecedex/internal/db"
	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/batch"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// engine is the consumer interface for collection indexes (ISP).
type engine interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Bulk(ctx context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error)
	Scan(ctx context.Context, index string) iter.Seq2[string, error]
}

// Repo manages one engine index per collection.
type Repo struct {
	engine engine
	prefix string
}

// New creates a collection repository. prefix namespaces index names.
func New(e engine, prefix string) *Repo {
	return &Repo{engine: e, prefix: prefix}
}

// IndexName returns the engine index of a collection.
func (r *Repo) IndexName(collectionID int64) string {
	return IndexName(r.prefix, collectionID)
}

// Ensure creates the collection index if it does not exist yet.
func (r *Repo) Ensure(ctx context.Context, collectionID int64) error {
	name := r.IndexName(collectionID)
	def, err := buildIndex(name)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}
	if err := r.engine.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("%w: create index %s: %w", domain.ErrEngine, name, err)
	}
	return nil
}

// Exists reports whether the collection has been indexed.
func (r *Repo) Exists(ctx context.Context, collectionID int64) (bool, error) {
	name := r.IndexName(collectionID)
	ok, err := r.engine.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: check index %s: %w", domain.ErrEngine, name, err)
	}
	return ok, nil
}

// Drop removes the collection index. A missing index is not an error.
func (r *Repo) Drop(ctx context.Context, collectionID int64) error {
	name := r.IndexName(collectionID)
	if err := r.engine.DropIndex(ctx, name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: drop index %s: %w", domain.ErrEngine, name, err)
	}
	return nil
}

// Clear removes every entry of the collection index and returns how many
// were removed. Any per-item failure fails the whole call.
func (r *Repo) Clear(ctx context.Context, collectionID int64) (int, error) {
	name := r.IndexName(collectionID)

	var ops []db.BulkOp
	for id, err := range r.engine.Scan(ctx, name) {
		if err != nil {
			return 0, fmt.Errorf("%w: scan %s: %w", domain.ErrEngine, name, err)
		}
		ops = append(ops, db.BulkOp{Action: db.BulkDelete, ID: id})
	}
	if len(ops) == 0 {
		return 0, nil
	}

	if err := r.bulk(ctx, name, "clear", ops); err != nil {
		return 0, err
	}
	return len(ops), nil
}

// Populate upserts pieces into the collection index keyed by piece id.
// Any per-item failure fails the whole call.
func (r *Repo) Populate(ctx context.Context, collectionID int64, pieces []domtp.TextPiece) (int, error) {
	if len(pieces) == 0 {
		return 0, nil
	}
	name := r.IndexName(collectionID)

	ops := make([]db.BulkOp, 0, len(pieces))
	for _, tp := range pieces {
		ops = append(ops, toBulkDoc(tp))
	}
	if err := r.bulk(ctx, name, "populate", ops); err != nil {
		return 0, err
	}
	return len(ops), nil
}

func (r *Repo) bulk(ctx context.Context, index, op string, ops []db.BulkOp) error {
	res, err := r.engine.Bulk(ctx, index, ops)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrEngine, op, index, err)
	}

	results := make([]batch.Result, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Err != nil {
			results = append(results, batch.NewError(it.ID, it.Err))
			continue
		}
		results = append(results, batch.NewOK(it.ID))
	}
	if ferr := batch.NewFailureError(op+" "+index, results); ferr != nil {
		return fmt.Errorf("%w: %w", domain.ErrEngine, ferr)
	}
	return nil
}

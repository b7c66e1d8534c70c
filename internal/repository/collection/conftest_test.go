package collection

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/kailas-cloud/piecedex/internal/db"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// mockEngine implements the consumer interface for tests.
type mockEngine struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	bulkFn        func(ctx context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error)
	scanIDs       []string
	scanErr       error
}

func (m *mockEngine) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockEngine) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockEngine) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockEngine) Bulk(ctx context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, ops)
	}
	return okResult(ops), nil
}

func (m *mockEngine) Scan(_ context.Context, _ string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, id := range m.scanIDs {
			if !yield(id, nil) {
				return
			}
		}
		if m.scanErr != nil {
			yield("", m.scanErr)
		}
	}
}

func okResult(ops []db.BulkOp) *db.BulkResult {
	res := &db.BulkResult{Items: make([]db.BulkItemResult, 0, len(ops))}
	for _, op := range ops {
		res.Items = append(res.Items, db.BulkItemResult{ID: op.ID, Action: op.Action})
	}
	return res
}

func newTestRepo(t *testing.T) (*Repo, *mockEngine) {
	t.Helper()
	me := &mockEngine{}
	return New(me, "test-"), me
}

func testPiece(id int64, doc string) domtp.TextPiece {
	return domtp.Reconstruct(
		id, doc, domtp.TypeParagraph, 1, "hello world", 11, false,
		map[string]any{"lang": "en"}, time.UnixMilli(1_700_000_000_000).UTC(),
	)
}

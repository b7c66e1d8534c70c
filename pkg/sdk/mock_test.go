package piecedex

import (
	"context"
	"encoding/json"
	"iter"
	"sort"
	"sync"

	"github.com/kailas-cloud/piecedex/internal/db"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	docpatch "github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	tppatch "github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

// --- documentUseCase mock ---

type mockDocumentUC struct {
	createFn func(ctx context.Context, name, author string) (domdoc.Document, error)
	getFn    func(ctx context.Context, id int64) (domdoc.Document, error)
	patchFn  func(ctx context.Context, id int64, p docpatch.Patch) (domdoc.Document, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockDocumentUC) Create(ctx context.Context, name, author string) (domdoc.Document, error) {
	return m.createFn(ctx, name, author)
}

func (m *mockDocumentUC) Get(ctx context.Context, id int64) (domdoc.Document, error) {
	return m.getFn(ctx, id)
}

func (m *mockDocumentUC) Patch(ctx context.Context, id int64, p docpatch.Patch) (domdoc.Document, error) {
	return m.patchFn(ctx, id, p)
}

func (m *mockDocumentUC) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

// --- textPieceUseCase mock ---

type mockTextPieceUC struct {
	createFn func(ctx context.Context, in textpieceuc.CreateInput) (domtp.TextPiece, error)
	getFn    func(ctx context.Context, id int64) (domtp.TextPiece, error)
	patchFn  func(ctx context.Context, id int64, p tppatch.Patch) (domtp.TextPiece, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockTextPieceUC) Create(ctx context.Context, in textpieceuc.CreateInput) (domtp.TextPiece, error) {
	return m.createFn(ctx, in)
}

func (m *mockTextPieceUC) Get(ctx context.Context, id int64) (domtp.TextPiece, error) {
	return m.getFn(ctx, id)
}

func (m *mockTextPieceUC) Patch(ctx context.Context, id int64, p tppatch.Patch) (domtp.TextPiece, error) {
	return m.patchFn(ctx, id, p)
}

func (m *mockTextPieceUC) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

// --- indexUseCase / searchUseCase mocks ---

type mockIndexUC struct {
	fn func(ctx context.Context, documentID int64) (domidx.Report, error)
}

func (m *mockIndexUC) IndexDocument(ctx context.Context, documentID int64) (domidx.Report, error) {
	return m.fn(ctx, documentID)
}

type mockSearchUC struct {
	fn func(ctx context.Context, collectionID int64, q request.Query) (result.Page, error)
}

func (m *mockSearchUC) Search(ctx context.Context, collectionID int64, q request.Query) (result.Page, error) {
	return m.fn(ctx, collectionID, q)
}

// --- memEngine: an in-memory engine for wiring tests ---

// memEngine keeps index documents in maps. Search ignores filters and
// returns every entry ordered by id.
type memEngine struct {
	mu      sync.Mutex
	indexes map[string]map[string]map[string]any
	pingErr error
}

var _ engine = (*memEngine)(nil)

func newMemEngine() *memEngine {
	return &memEngine{indexes: make(map[string]map[string]map[string]any)}
}

func (e *memEngine) Ping(context.Context) error { return e.pingErr }

func (e *memEngine) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	e.indexes[def.Name] = make(map[string]map[string]any)
	return nil
}

func (e *memEngine) DropIndex(_ context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(e.indexes, name)
	return nil
}

func (e *memEngine) IndexExists(_ context.Context, name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.indexes[name]
	return ok, nil
}

func (e *memEngine) Bulk(_ context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	docs, ok := e.indexes[index]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	res := &db.BulkResult{}
	for _, op := range ops {
		switch op.Action {
		case db.BulkIndex:
			docs[op.ID] = op.Doc
		case db.BulkDelete:
			delete(docs, op.ID)
		}
		res.Items = append(res.Items, db.BulkItemResult{ID: op.ID, Action: op.Action})
	}
	return res, nil
}

func (e *memEngine) Scan(_ context.Context, index string) iter.Seq2[string, error] {
	e.mu.Lock()
	ids := e.sortedIDs(index)
	e.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, id := range ids {
			if !yield(id, nil) {
				return
			}
		}
	}
}

func (e *memEngine) Count(_ context.Context, index string, _ *db.Query) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.indexes[index]), nil
}

func (e *memEngine) Search(_ context.Context, index string, _ *db.Query) (*db.SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := &db.SearchResult{}
	for _, id := range e.sortedIDs(index) {
		src, err := json.Marshal(e.indexes[index][id])
		if err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries, db.SearchEntry{ID: id, Score: 1, Source: src})
	}
	return res, nil
}

func (e *memEngine) sortedIDs(index string) []string {
	ids := make([]string, 0, len(e.indexes[index]))
	for id := range e.indexes[index] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package indexation

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// fakeEngine keeps collection contents in memory.
type fakeEngine struct {
	mu          sync.Mutex
	content     map[int64]map[int64]domtp.TextPiece
	ensureErr   error
	clearErr    error
	populateErr error
	calls       []string
	onClear     func()
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{content: make(map[int64]map[int64]domtp.TextPiece)}
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) Ensure(_ context.Context, id int64) error {
	f.record("ensure")
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.content[id] == nil {
		f.content[id] = make(map[int64]domtp.TextPiece)
	}
	return nil
}

func (f *fakeEngine) Clear(_ context.Context, id int64) (int, error) {
	f.record("clear")
	if f.onClear != nil {
		f.onClear()
	}
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.content[id])
	f.content[id] = make(map[int64]domtp.TextPiece)
	return n, nil
}

func (f *fakeEngine) Populate(_ context.Context, id int64, pieces []domtp.TextPiece) (int, error) {
	f.record("populate")
	if f.populateErr != nil {
		return 0, f.populateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tp := range pieces {
		f.content[id][tp.ID()] = tp
	}
	return len(pieces), nil
}

func (f *fakeEngine) ids(collection int64) map[int64]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]bool)
	for id := range f.content[collection] {
		out[id] = true
	}
	return out
}

// fakeStore serves documents and pieces.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[int64]domdoc.Document
	pieces  map[string][]domtp.TextPiece
	marked  []int64
	markErr error
}

func (f *fakeStore) Get(_ context.Context, id int64) (domdoc.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return d, nil
}

func (f *fakeStore) ListByDocumentName(_ context.Context, name string) ([]domtp.TextPiece, error) {
	return f.pieces[name], nil
}

func (f *fakeStore) MarkIndexed(_ context.Context, ids []int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, ids...)
	return nil
}

func piece(id int64) domtp.TextPiece {
	return domtp.Reconstruct(id, "guide", domtp.TypeParagraph, 1, "hello world", 11, false, nil, time.Unix(id, 0))
}

func newTestService() (*Service, *fakeEngine, *fakeStore) {
	eng := newFakeEngine()
	st := &fakeStore{
		docs:   map[int64]domdoc.Document{1: domdoc.Reconstruct(1, "guide", "ann")},
		pieces: map[string][]domtp.TextPiece{"guide": {piece(10), piece(11)}},
	}
	return New(eng, st, st), eng, st
}

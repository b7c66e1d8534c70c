package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// --- Mocks ---

type mockRepo struct {
	exists      bool
	existsErr   error
	total       int
	countErr    error
	hits        []result.Hit
	searchErr   error
	countCalled bool
	lastQuery   request.Query
}

func (m *mockRepo) Exists(_ context.Context, _ int64) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockRepo) Count(_ context.Context, _ int64, _ request.Query) (int, error) {
	m.countCalled = true
	return m.total, m.countErr
}

func (m *mockRepo) Search(_ context.Context, _ int64, q request.Query) ([]result.Hit, error) {
	m.lastQuery = q
	return m.hits, m.searchErr
}

func testQuery(t *testing.T, p request.Pagination) request.Query {
	t.Helper()
	q, err := request.New(p, nil)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return q
}

// --- Tests ---

func TestSearch_Page(t *testing.T) {
	tp := domtp.Reconstruct(1, "guide", domtp.TypeTitle, 1, "hello world", 11, true, nil, time.Now())
	repo := &mockRepo{exists: true, total: 21, hits: []result.Hit{result.NewHit(tp, 2.5)}}

	page, err := New(repo).Search(context.Background(), 3, testQuery(t, request.NewPagination(2, 20)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PageNum() != 2 || page.PageSize() != 20 || page.Total() != 21 {
		t.Errorf("unexpected page meta %d/%d/%d", page.PageNum(), page.PageSize(), page.Total())
	}
	if len(page.Hits()) != 1 || page.Hits()[0].Piece().ID() != 1 {
		t.Errorf("unexpected hits %+v", page.Hits())
	}
	if repo.lastQuery.Pagination().Offset() != 20 {
		t.Errorf("search offset = %d", repo.lastQuery.Pagination().Offset())
	}
}

func TestSearch_MissingCollection(t *testing.T) {
	repo := &mockRepo{exists: false}
	_, err := New(repo).Search(context.Background(), 3, testQuery(t, request.DefaultPagination()))
	if !errors.Is(err, domain.ErrCollectionNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
	if repo.countCalled {
		t.Error("count must not run for a missing collection")
	}
}

func TestSearch_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		repo *mockRepo
	}{
		{"exists", &mockRepo{existsErr: boom}},
		{"count", &mockRepo{exists: true, countErr: boom}},
		{"search", &mockRepo{exists: true, searchErr: boom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.repo).Search(context.Background(), 1, testQuery(t, request.DefaultPagination()))
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}
			if errors.Is(err, domain.ErrNotFound) {
				t.Error("engine failure must not look like NotFound")
			}
		})
	}
}

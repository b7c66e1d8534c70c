package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/piecedex/internal/domain"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	docpatch "github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	tppatch "github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
	healthuc "github.com/kailas-cloud/piecedex/internal/usecase/health"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

var testCreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mockDocuments struct {
	docs      map[int64]domdoc.Document
	createErr error
	lastPatch *docpatch.Patch
}

func newMockDocuments(docs ...domdoc.Document) *mockDocuments {
	m := &mockDocuments{docs: make(map[int64]domdoc.Document)}
	for _, d := range docs {
		m.docs[d.ID()] = d
	}
	return m
}

func (m *mockDocuments) Create(_ context.Context, name, author string) (domdoc.Document, error) {
	if m.createErr != nil {
		return domdoc.Document{}, m.createErr
	}
	if _, err := domdoc.New(name, author); err != nil {
		return domdoc.Document{}, domain.Invalid(err)
	}
	for _, d := range m.docs {
		if d.Name() == name {
			return domdoc.Document{}, domain.ErrAlreadyExists
		}
	}
	d := domdoc.Reconstruct(int64(len(m.docs)+1), name, author)
	m.docs[d.ID()] = d
	return d, nil
}

func (m *mockDocuments) Get(_ context.Context, id int64) (domdoc.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return d, nil
}

func (m *mockDocuments) Patch(_ context.Context, id int64, p docpatch.Patch) (domdoc.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	m.lastPatch = &p
	d = d.Apply(p)
	m.docs[id] = d
	return d, nil
}

func (m *mockDocuments) Delete(_ context.Context, id int64) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

type mockPieces struct {
	pieces    map[int64]domtp.TextPiece
	docs      map[string]bool
	lastPatch *tppatch.Patch
}

func newMockPieces(docNames ...string) *mockPieces {
	m := &mockPieces{pieces: make(map[int64]domtp.TextPiece), docs: make(map[string]bool)}
	for _, n := range docNames {
		m.docs[n] = true
	}
	return m
}

func (m *mockPieces) Create(_ context.Context, in textpieceuc.CreateInput) (domtp.TextPiece, error) {
	typ, err := domtp.ParseType(in.Type)
	if err != nil {
		return domtp.TextPiece{}, domain.Invalid(err)
	}
	tp, err := domtp.New(in.DocumentName, typ, in.Page, in.Text, in.MetaData)
	if err != nil {
		return domtp.TextPiece{}, domain.Invalid(err)
	}
	if !m.docs[in.DocumentName] {
		return domtp.TextPiece{}, domain.ErrDocumentNotFound
	}
	id := int64(len(m.pieces) + 1)
	stored := domtp.Reconstruct(id, tp.DocumentName(), tp.Type(), tp.Page(), tp.Text(), tp.Size(),
		false, tp.MetaData(), testCreatedAt)
	m.pieces[id] = stored
	return stored, nil
}

func (m *mockPieces) Get(_ context.Context, id int64) (domtp.TextPiece, error) {
	tp, ok := m.pieces[id]
	if !ok {
		return domtp.TextPiece{}, domain.ErrTextPieceNotFound
	}
	return tp, nil
}

func (m *mockPieces) Patch(_ context.Context, id int64, p tppatch.Patch) (domtp.TextPiece, error) {
	tp, ok := m.pieces[id]
	if !ok {
		return domtp.TextPiece{}, domain.ErrTextPieceNotFound
	}
	m.lastPatch = &p
	next, err := tp.Apply(p)
	if err != nil {
		return domtp.TextPiece{}, domain.Invalid(err)
	}
	m.pieces[id] = next
	return next, nil
}

func (m *mockPieces) Delete(_ context.Context, id int64) error {
	if _, ok := m.pieces[id]; !ok {
		return domain.ErrTextPieceNotFound
	}
	delete(m.pieces, id)
	return nil
}

type mockIndex struct {
	err     error
	indexed []int64
}

func (m *mockIndex) IndexDocument(_ context.Context, documentID int64) (domidx.Report, error) {
	if m.err != nil {
		return domidx.Report{}, m.err
	}
	m.indexed = append(m.indexed, documentID)
	return domidx.Report{RunID: "run-1", Collection: documentID, State: domidx.StateDone}, nil
}

type mockSearch struct {
	hits      []result.Hit
	total     int
	err       error
	lastQuery *request.Query
}

func (m *mockSearch) Search(_ context.Context, _ int64, q request.Query) (result.Page, error) {
	m.lastQuery = &q
	if m.err != nil {
		return result.Page{}, m.err
	}
	return result.NewPage(q.Pagination(), m.total, m.hits), nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testServer struct {
	docs   *mockDocuments
	pieces *mockPieces
	index  *mockIndex
	search *mockSearch
	health *mockHealth
	srv    *Server
}

func newTestServer(opts ...Option) *testServer {
	ts := &testServer{
		docs:   newMockDocuments(domdoc.Reconstruct(1, "doc.pdf", "A")),
		pieces: newMockPieces("doc.pdf"),
		index:  &mockIndex{},
		search: &mockSearch{},
		health: &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	ts.srv = NewServer(ts.docs, ts.pieces, ts.index, ts.search, ts.health, zap.NewNop(), opts...)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rr, req)
	return rr
}

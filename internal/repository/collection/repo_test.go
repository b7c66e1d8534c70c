package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/piecedex/internal/db"
	"github.com/kailas-cloud/piecedex/internal/domain"
	"github.com/kailas-cloud/piecedex/internal/domain/batch"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

func TestIndexName(t *testing.T) {
	repo, _ := newTestRepo(t)
	if got := repo.IndexName(12); got != "test-pieces-12" {
		t.Errorf("IndexName = %q", got)
	}
}

// --- Ensure ---

func TestEnsure_CreatesMapping(t *testing.T) {
	repo, me := newTestRepo(t)
	var got *db.IndexDefinition
	me.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if err := repo.Ensure(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Name != "test-pieces-3" {
		t.Fatalf("unexpected definition %+v", got)
	}

	text, ok := got.Field("text")
	if !ok || text.Type != db.IndexFieldText || !text.Keyword || text.Analyzer != textAnalyzer {
		t.Errorf("text field = %+v", text)
	}
	name, _ := got.Field("document_name")
	if !name.Keyword {
		t.Error("document_name needs a keyword sub-field")
	}
	created, _ := got.Field("created_at")
	if created.Type != db.IndexFieldDate || !created.Sortable {
		t.Errorf("created_at field = %+v", created)
	}
	pieceID, _ := got.Field("piece_id")
	if pieceID.Type != db.IndexFieldNumeric || !pieceID.Sortable {
		t.Errorf("piece_id field = %+v, want sortable numeric", pieceID)
	}
	meta, _ := got.Field("meta_data")
	if meta.Type != db.IndexFieldFlattened {
		t.Errorf("meta_data field = %+v", meta)
	}
}

func TestEnsure_AlreadyExistsIsBenign(t *testing.T) {
	repo, me := newTestRepo(t)
	me.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }
	if err := repo.Ensure(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsure_Error(t *testing.T) {
	repo, me := newTestRepo(t)
	me.createIndexFn = func(context.Context, *db.IndexDefinition) error { return errors.New("down") }
	if err := repo.Ensure(context.Background(), 1); !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

// --- Exists / Drop ---

func TestExists(t *testing.T) {
	repo, me := newTestRepo(t)
	me.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		return name == "test-pieces-5", nil
	}
	ok, err := repo.Exists(context.Background(), 5)
	if err != nil || !ok {
		t.Fatalf("Exists(5) = %v, %v", ok, err)
	}
	ok, _ = repo.Exists(context.Background(), 6)
	if ok {
		t.Error("Exists(6) = true")
	}
}

func TestDrop_MissingIndexIsBenign(t *testing.T) {
	repo, me := newTestRepo(t)
	me.dropIndexFn = func(context.Context, string) error { return db.ErrIndexNotFound }
	if err := repo.Drop(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- Clear ---

func TestClear_DeletesScannedIDs(t *testing.T) {
	repo, me := newTestRepo(t)
	me.scanIDs = []string{"1", "2", "3"}
	var deleted []string
	me.bulkFn = func(_ context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error) {
		if index != "test-pieces-9" {
			t.Errorf("unexpected index %s", index)
		}
		for _, op := range ops {
			if op.Action != db.BulkDelete {
				t.Errorf("unexpected action %s", op.Action)
			}
			deleted = append(deleted, op.ID)
		}
		return okResult(ops), nil
	}

	n, err := repo.Clear(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || len(deleted) != 3 {
		t.Errorf("cleared %d, deleted %v", n, deleted)
	}
}

func TestClear_EmptySkipsBulk(t *testing.T) {
	repo, me := newTestRepo(t)
	me.bulkFn = func(context.Context, string, []db.BulkOp) (*db.BulkResult, error) {
		t.Fatal("bulk must not be called")
		return nil, nil
	}
	n, err := repo.Clear(context.Background(), 1)
	if err != nil || n != 0 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
}

func TestClear_ScanError(t *testing.T) {
	repo, me := newTestRepo(t)
	me.scanIDs = []string{"1"}
	me.scanErr = errors.New("scroll expired")
	if _, err := repo.Clear(context.Background(), 1); !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

func TestClear_ItemFailure(t *testing.T) {
	repo, me := newTestRepo(t)
	me.scanIDs = []string{"1", "2"}
	me.bulkFn = func(_ context.Context, _ string, ops []db.BulkOp) (*db.BulkResult, error) {
		res := okResult(ops)
		res.Items[1].Err = errors.New("version conflict")
		return res, nil
	}

	_, err := repo.Clear(context.Background(), 1)
	var fe *batch.FailureError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *batch.FailureError, got %v", err)
	}
	if len(fe.Failed) != 1 || fe.Failed[0].ID() != "2" {
		t.Errorf("unexpected failures %+v", fe.Failed)
	}
	if !errors.Is(err, domain.ErrEngine) {
		t.Error("expected ErrEngine in chain")
	}
}

// --- Populate ---

func TestPopulate_WritesIndexedDocs(t *testing.T) {
	repo, me := newTestRepo(t)
	var got []db.BulkOp
	me.bulkFn = func(_ context.Context, _ string, ops []db.BulkOp) (*db.BulkResult, error) {
		got = ops
		return okResult(ops), nil
	}

	n, err := repo.Populate(context.Background(), 4, []domtp.TextPiece{testPiece(10, "guide"), testPiece(11, "guide")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("populated %d, ops %d", n, len(got))
	}

	op := got[0]
	if op.Action != db.BulkIndex || op.ID != "10" {
		t.Errorf("unexpected op %+v", op)
	}
	if op.Doc["indexed"] != true {
		t.Error("documents must be written with indexed=true")
	}
	if op.Doc["piece_id"] != int64(10) || op.Doc["size"] != 11 || op.Doc["type"] != "paragraph" {
		t.Errorf("unexpected doc %+v", op.Doc)
	}
	meta, ok := op.Doc["meta_data"].(map[string]any)
	if !ok || meta["lang"] != "en" {
		t.Errorf("meta_data = %#v", op.Doc["meta_data"])
	}
}

func TestPopulate_Empty(t *testing.T) {
	repo, me := newTestRepo(t)
	me.bulkFn = func(context.Context, string, []db.BulkOp) (*db.BulkResult, error) {
		t.Fatal("bulk must not be called")
		return nil, nil
	}
	if n, err := repo.Populate(context.Background(), 1, nil); err != nil || n != 0 {
		t.Fatalf("Populate = %d, %v", n, err)
	}
}

func TestPopulate_TransportError(t *testing.T) {
	repo, me := newTestRepo(t)
	me.bulkFn = func(context.Context, string, []db.BulkOp) (*db.BulkResult, error) {
		return nil, &db.Error{Op: db.OpBulk, Err: errors.New("timeout")}
	}
	_, err := repo.Populate(context.Background(), 1, []domtp.TextPiece{testPiece(1, "guide")})
	if !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

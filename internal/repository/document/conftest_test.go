package document

import (
	"testing"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

func newTestRepo(t *testing.T) (*Repo, *sqldb.Store) {
	t.Helper()
	s, err := sqldb.NewInMemoryForTest()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return New(s), s
}

func testDocument(t *testing.T, name string) domdoc.Document {
	t.Helper()
	d, err := domdoc.New(name, "ann")
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return d
}

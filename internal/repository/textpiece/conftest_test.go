package textpiece

import (
	"testing"

	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

func newTestRepo(t *testing.T, documents ...string) (*Repo, *sqldb.Store) {
	t.Helper()
	s, err := sqldb.NewInMemoryForTest()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	for _, name := range documents {
		if err := s.DB().Create(&sqldb.DocumentRow{Name: name}).Error; err != nil {
			t.Fatalf("seed document %q: %v", name, err)
		}
	}
	return New(s), s
}

func testPiece(t *testing.T, document, text string) domtp.TextPiece {
	t.Helper()
	tp, err := domtp.New(document, domtp.TypeParagraph, 1, text, map[string]any{"lang": "en"})
	if err != nil {
		t.Fatalf("new piece: %v", err)
	}
	return tp
}

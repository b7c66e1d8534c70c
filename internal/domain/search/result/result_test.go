package result

import (
	"testing"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

func TestNewPage(t *testing.T) {
	tp := textpiece.Reconstruct(1, "manual", textpiece.TypeTitle, 1, "hello", 5, true, nil, time.Time{})
	p := NewPage(request.NewPagination(2, 10), 11, []Hit{NewHit(tp, 0.5)})

	if p.PageNum() != 2 || p.PageSize() != 10 {
		t.Errorf("window = %d/%d", p.PageNum(), p.PageSize())
	}
	if p.Total() != 11 {
		t.Errorf("Total() = %d", p.Total())
	}
	if len(p.Hits()) != 1 || p.Hits()[0].Piece().ID() != 1 || p.Hits()[0].Score() != 0.5 {
		t.Errorf("Hits() = %+v", p.Hits())
	}
}

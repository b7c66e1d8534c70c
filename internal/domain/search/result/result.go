package result

import (
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// Hit is a single matching text piece with its relevance score.
type Hit struct {
	piece textpiece.TextPiece
	score float64
}

// NewHit creates a search hit.
func NewHit(piece textpiece.TextPiece, score float64) Hit {
	return Hit{piece: piece, score: score}
}

// Piece returns the matching text piece.
func (h Hit) Piece() textpiece.TextPiece { return h.piece }

// Score returns the engine relevance score.
func (h Hit) Score() float64 { return h.score }

// Page is one page of search results. Total counts all matches regardless of
// pagination; it is taken in a separate round-trip and may drift from the
// page under concurrent writes.
type Page struct {
	pageNum  int
	pageSize int
	total    int
	hits     []Hit
}

// NewPage creates a result page for the given window.
func NewPage(p request.Pagination, total int, hits []Hit) Page {
	return Page{pageNum: p.PageNum(), pageSize: p.PageSize(), total: total, hits: hits}
}

// PageNum returns the 1-based page number.
func (p Page) PageNum() int { return p.pageNum }

// PageSize returns the requested page size.
func (p Page) PageSize() int { return p.pageSize }

// Total returns the number of matches across all pages.
func (p Page) Total() int { return p.total }

// Hits returns the page entries in rank order.
func (p Page) Hits() []Hit { return p.hits }

package piecedex

import "time"

// Document is a named source that owns text pieces.
type Document struct {
	ID     int64
	Name   string
	Author string
}

// TextPieceType classifies a text piece.
type TextPieceType string

// Text piece types.
const (
	TypeTitle     TextPieceType = "title"
	TypeParagraph TextPieceType = "paragraph"
)

// TextPiece is a stored fragment of a document.
type TextPiece struct {
	ID           int64
	DocumentName string
	Type         TextPieceType
	Page         int
	Text         string
	Size         int
	Indexed      bool
	MetaData     map[string]any
	CreatedAt    time.Time
}

// NewTextPiece holds the attributes of a piece to create. Size is derived.
type NewTextPiece struct {
	DocumentName string
	Type         TextPieceType
	Page         int
	Text         string
	MetaData     map[string]any
}

// TextPiecePatch is a partial piece update. Nil fields are unchanged;
// MetaData pointing at a nil map clears the metadata.
type TextPiecePatch struct {
	Text         *string
	Type         *TextPieceType
	Page         *int
	DocumentName *string
	MetaData     *map[string]any
}

// Filter is one search condition. Value is a string, bool, integer,
// time.Time, or a slice of integers or strings for the "in" operator.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// SearchRequest selects a page of matches. Zero PageNum and PageSize take
// the defaults (page 1 of 15).
type SearchRequest struct {
	PageNum  int
	PageSize int
	Filters  []Filter
}

// SearchHit is a matching piece with its relevance score.
type SearchHit struct {
	TextPiece
	Score float64
}

// SearchPage is one page of results. Total counts all matches.
type SearchPage struct {
	PageNum  int
	PageSize int
	Total    int
	Hits     []SearchHit
}

// ReindexReport summarizes a successful Reindex.
type ReindexReport struct {
	RunID     string
	Cleared   int
	Populated int
	Duration  time.Duration
}

package textpiece

import (
	"fmt"
	"maps"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
)

// Type classifies a text piece.
type Type string

// Text piece types.
const (
	TypeTitle     Type = "title"
	TypeParagraph Type = "paragraph"
)

// ParseType validates a raw type value.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeTitle, TypeParagraph:
		return t, nil
	default:
		return "", fmt.Errorf("type must be one of %q, %q; got %q", TypeTitle, TypeParagraph, s)
	}
}

// TextPiece is a typed, paged fragment of a document (immutable value object).
// Size always equals len(text) in bytes.
type TextPiece struct {
	id           int64
	documentName string
	typ          Type
	page         int
	text         string
	size         int
	indexed      bool
	metaData     map[string]any
	createdAt    time.Time
}

// New validates and creates a TextPiece that has not been stored yet.
func New(documentName string, typ Type, page int, text string, metaData map[string]any) (TextPiece, error) {
	tp := TextPiece{
		documentName: documentName,
		typ:          typ,
		page:         page,
		text:         text,
		size:         len(text),
		metaData:     maps.Clone(metaData),
	}
	if err := tp.validate(); err != nil {
		return TextPiece{}, err
	}
	return tp, nil
}

// Reconstruct creates a TextPiece without validation (storage hydration).
func Reconstruct(
	id int64, documentName string, typ Type, page int, text string, size int,
	indexed bool, metaData map[string]any, createdAt time.Time,
) TextPiece {
	return TextPiece{
		id: id, documentName: documentName, typ: typ, page: page, text: text, size: size,
		indexed: indexed, metaData: metaData, createdAt: createdAt,
	}
}

func (tp TextPiece) validate() error {
	if tp.text == "" {
		return fmt.Errorf("text is required")
	}
	if tp.documentName == "" {
		return fmt.Errorf("document_name is required")
	}
	if tp.page <= 0 {
		return fmt.Errorf("page must be greater than 0")
	}
	if _, err := ParseType(string(tp.typ)); err != nil {
		return err
	}
	return nil
}

// ID returns the store-assigned identifier, zero before the first save.
func (tp TextPiece) ID() int64 { return tp.id }

// DocumentName returns the owning document name.
func (tp TextPiece) DocumentName() string { return tp.documentName }

// Type returns the piece type.
func (tp TextPiece) Type() Type { return tp.typ }

// Page returns the 1-based page number.
func (tp TextPiece) Page() int { return tp.page }

// Text returns the piece text.
func (tp TextPiece) Text() string { return tp.text }

// Size returns len(text) in bytes.
func (tp TextPiece) Size() int { return tp.size }

// Indexed reports whether the last successful reindex included this piece.
func (tp TextPiece) Indexed() bool { return tp.indexed }

// MetaData returns the free-form metadata, nil when absent.
func (tp TextPiece) MetaData() map[string]any { return tp.metaData }

// CreatedAt returns the store-assigned creation time.
func (tp TextPiece) CreatedAt() time.Time { return tp.createdAt }

// Apply returns a validated copy with the patch applied. Size follows text.
func (tp TextPiece) Apply(p patch.Patch) (TextPiece, error) {
	if p.Text() != nil {
		tp.text = *p.Text()
		tp.size = len(tp.text)
	}
	if p.Type() != nil {
		tp.typ = Type(*p.Type())
	}
	if p.Page() != nil {
		tp.page = *p.Page()
	}
	if p.DocumentName() != nil {
		tp.documentName = *p.DocumentName()
	}
	if p.HasMetaData() {
		tp.metaData = maps.Clone(p.MetaData())
	}
	if err := tp.validate(); err != nil {
		return TextPiece{}, err
	}
	return tp, nil
}

// WithIndexed returns a copy with the indexed flag set.
func (tp TextPiece) WithIndexed(indexed bool) TextPiece {
	tp.indexed = indexed
	return tp
}

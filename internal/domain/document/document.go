package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/piecedex/internal/domain/document/patch"
)

// MaxNameLength is the maximum document name length in characters.
const MaxNameLength = 1024

// Document is a named, authored container of text pieces (immutable value object).
type Document struct {
	id     int64
	name   string
	author string
}

// New validates and creates a Document that has not been stored yet.
// Name: non-empty, at most MaxNameLength characters. Author may be empty.
func New(name, author string) (Document, error) {
	if name == "" {
		return Document{}, fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Document{}, fmt.Errorf("name too long (max %d)", MaxNameLength)
	}
	return Document{name: name, author: author}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id int64, name, author string) Document {
	return Document{id: id, name: name, author: author}
}

// ID returns the store-assigned identifier, zero before the first save.
func (d Document) ID() int64 { return d.id }

// Name returns the unique document name.
func (d Document) Name() string { return d.name }

// Author returns the document author.
func (d Document) Author() string { return d.author }

// Apply returns a copy with the patch applied.
func (d Document) Apply(p patch.Patch) Document {
	if p.Author() != nil {
		d.author = *p.Author()
	}
	return d
}

package patch

import "fmt"

// Patch is a partial text piece update. Nil fields are unchanged.
// MetaData distinguishes "absent" from "set to null": a present nil map clears it.
type Patch struct {
	text         *string
	typ          *string
	page         *int
	documentName *string
	metaData     map[string]any
	hasMetaData  bool
}

// New validates and creates a Patch. At least one field must be provided.
// metaData nil leaves metadata unchanged; a pointer to a nil map clears it.
func New(text, typ *string, page *int, documentName *string, metaData *map[string]any) (Patch, error) {
	if text == nil && typ == nil && page == nil && documentName == nil && metaData == nil {
		return Patch{}, fmt.Errorf("no data for required field provided")
	}
	if text != nil && *text == "" {
		return Patch{}, fmt.Errorf("text must not be empty")
	}
	if page != nil && *page <= 0 {
		return Patch{}, fmt.Errorf("page must be greater than 0")
	}
	if documentName != nil && *documentName == "" {
		return Patch{}, fmt.Errorf("document_name must not be empty")
	}

	p := Patch{text: text, typ: typ, page: page, documentName: documentName}
	if metaData != nil {
		p.metaData = *metaData
		p.hasMetaData = true
	}
	return p, nil
}

// Text returns the new text, or nil if unchanged.
func (p Patch) Text() *string { return p.text }

// Type returns the new raw type, or nil if unchanged.
func (p Patch) Type() *string { return p.typ }

// Page returns the new page, or nil if unchanged.
func (p Patch) Page() *int { return p.page }

// DocumentName returns the new owning document name, or nil if unchanged.
func (p Patch) DocumentName() *string { return p.documentName }

// MetaData returns the replacement metadata; meaningful only when HasMetaData.
func (p Patch) MetaData() map[string]any { return p.metaData }

// HasMetaData reports whether the patch sets metadata (possibly to null).
func (p Patch) HasMetaData() bool { return p.hasMetaData }

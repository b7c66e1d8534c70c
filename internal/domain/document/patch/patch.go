package patch

import "fmt"

// Patch is a partial document update. Only the author can change.
type Patch struct {
	author *string
}

// New validates and creates a Patch. At least one field must be provided.
func New(author *string) (Patch, error) {
	if author == nil {
		return Patch{}, fmt.Errorf("no data for required field provided")
	}
	return Patch{author: author}, nil
}

// Author returns the new author, or nil if unchanged.
func (p Patch) Author() *string { return p.author }

package db

import (
	"errors"
	"strconv"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldNumeric is an integer field usable in term and range clauses.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is an exact-match keyword field.
	IndexFieldTag
	// IndexFieldText is an analyzed full-text field.
	IndexFieldText
	// IndexFieldBool is a boolean field.
	IndexFieldBool
	// IndexFieldDate is a timestamp field.
	IndexFieldDate
	// IndexFieldFlattened is a free-form object whose leaf values are
	// indexed as keywords under the field name.
	IndexFieldFlattened
)

// String returns the lower-case type name.
func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldNumeric:
		return "numeric"
	case IndexFieldTag:
		return "tag"
	case IndexFieldText:
		return "text"
	case IndexFieldBool:
		return "bool"
	case IndexFieldDate:
		return "date"
	case IndexFieldFlattened:
		return "flattened"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// Keyword adds an exact-match sub-field next to an analyzed TEXT field.
	Keyword bool
	// Sortable marks fields used in sort clauses.
	Sortable bool
	// Analyzer names one of IndexDefinition.Analyzers (TEXT only).
	Analyzer string

	// TAG options
	TagSeparator     string
	TagCaseSensitive bool
}

// Analyzer is a named text analysis chain. Engines without per-field
// analysis apply Stopwords index-wide.
type Analyzer struct {
	Name      string
	Type      string
	Stopwords string
}

// IndexDefinition is a complete index definition.
type IndexDefinition struct {
	Name      string
	Prefixes  []string
	Analyzers []Analyzer
	Fields    []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	analyzers := make(map[string]bool, len(idx.Analyzers))
	for _, a := range idx.Analyzers {
		if a.Name == "" {
			return errors.New("analyzer name is required")
		}
		analyzers[a.Name] = true
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Keyword && f.Type != IndexFieldText {
			return errors.New("keyword sub-field requires a text field: " + f.Name)
		}
		if f.Analyzer != "" {
			if f.Type != IndexFieldText {
				return errors.New("analyzer requires a text field: " + f.Name)
			}
			if !analyzers[f.Analyzer] {
				return errors.New("unknown analyzer " + f.Analyzer + " on field " + f.Name)
			}
		}
	}

	return nil
}

// Field returns the field with the given name.
func (idx *IndexDefinition) Field(name string) (IndexField, bool) {
	for _, f := range idx.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return IndexField{}, false
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/piecedex/internal/db"
)

// keywordSeparator splits TAG values. It never occurs in user text, so a
// whole string is indexed as a single exact-match tag.
const keywordSeparator = "\x1f"

// keywordSuffix names the TAG alias that backs a TEXT field's keyword sub-field.
const keywordSuffix = "_keyword"

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name together with its hashes.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name, "DD").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	args := []string{idx.Name, "ON", "HASH"}

	prefixes := idx.Prefixes
	if len(prefixes) == 0 {
		prefixes = []string{keyPrefix(idx.Name)}
	}
	args = append(args, "PREFIX", strconv.Itoa(len(prefixes)))
	args = append(args, prefixes...)

	// No per-field analyzers here and english stopwords are the default, so
	// an analyzer that disables stopwords disables them index-wide.
	for _, a := range idx.Analyzers {
		if a.Stopwords == "_none_" {
			args = append(args, "STOPWORDS", "0")
			break
		}
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")
		if f.Sortable {
			args = append(args, "SORTABLE")
		}

	case db.IndexFieldDate:
		// Stored as unix milliseconds.
		args = append(args, "NUMERIC", "SORTABLE")

	case db.IndexFieldText:
		args = append(args, "TEXT")
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
		if f.Keyword {
			args = append(args,
				f.Name, "AS", f.Name+keywordSuffix,
				"TAG", "SEPARATOR", keywordSeparator, "CASESENSITIVE",
			)
		}

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}

	case db.IndexFieldBool:
		args = append(args, "TAG")

	case db.IndexFieldFlattened:
		args = append(args, "TAG", "SEPARATOR", keywordSeparator, "CASESENSITIVE")

	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}

package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/piecedex/internal/db"
)

const (
	dateFormat = "strict_date_optional_time_nanos||epoch_millis"
	// Lucene rejects terms over 32766 bytes; longer values skip the keyword sub-field.
	keywordIgnoreAbove = 8191
)

// CreateIndex creates an index with settings and mappings derived from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	body, err := buildCreateBody(def)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Indices.Create(def.Name,
		s.es.Indices.Create.WithBody(bytes.NewReader(body)),
		s.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		apiErr := decodeError(res)
		if apiErr.Err.Type == "resource_already_exists_exception" {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: apiErr}
	}
	return nil
}

// DropIndex deletes an index and its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Indices.Delete([]string{name}, s.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return db.ErrIndexNotFound
	}
	if res.IsError() {
		return &db.Error{Op: db.OpDropIndex, Err: decodeError(res)}
	}
	return nil
}

// IndexExists probes the index with HEAD /{index}.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Indices.Exists([]string{name}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	defer closeBody(res)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.IsError():
		return false, &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("status %d", res.StatusCode)}
	default:
		return true, nil
	}
}

func buildCreateBody(def *db.IndexDefinition) ([]byte, error) {
	if def.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(def.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	properties := make(map[string]any, len(def.Fields))
	for i := range def.Fields {
		mapping, err := fieldMapping(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		properties[def.Fields[i].Name] = mapping
	}

	settings := map[string]any{
		"index.blocks.read_only_allow_delete": "false",
	}
	if len(def.Analyzers) > 0 {
		analyzers := make(map[string]any, len(def.Analyzers))
		for _, a := range def.Analyzers {
			an := map[string]any{"type": a.Type}
			if a.Stopwords != "" {
				an["stopwords"] = a.Stopwords
			}
			analyzers[a.Name] = an
		}
		settings["analysis"] = map[string]any{"analyzer": analyzers}
	}

	return json.Marshal(map[string]any{
		"settings": settings,
		"mappings": map[string]any{"properties": properties},
	})
}

func fieldMapping(f *db.IndexField) (map[string]any, error) {
	switch f.Type {
	case db.IndexFieldNumeric:
		return map[string]any{"type": "long"}, nil
	case db.IndexFieldTag:
		return map[string]any{"type": "keyword"}, nil
	case db.IndexFieldBool:
		return map[string]any{"type": "boolean"}, nil
	case db.IndexFieldDate:
		return map[string]any{"type": "date", "format": dateFormat}, nil
	case db.IndexFieldFlattened:
		return map[string]any{"type": "flattened"}, nil
	case db.IndexFieldText:
		m := map[string]any{"type": "text"}
		if f.Analyzer != "" {
			m["analyzer"] = f.Analyzer
		} else {
			m["analyzer"] = "standard"
		}
		if f.Keyword {
			m["fields"] = map[string]any{
				"keyword": map[string]any{"type": "keyword", "ignore_above": keywordIgnoreAbove},
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("field %s: unknown field type", f.Name)
	}
}

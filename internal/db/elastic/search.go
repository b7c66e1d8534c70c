package elastic

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/kailas-cloud/piecedex/internal/db"
)

// Count returns the number of documents matching q, ignoring pagination.
func (s *Store) Count(ctx context.Context, index string, q *db.Query) (int, error) {
	body, err := json.Marshal(map[string]any{"query": buildQuery(q)})
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Count(
		s.es.Count.WithIndex(index),
		s.es.Count.WithBody(bytes.NewReader(body)),
		s.es.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return 0, &db.Error{Op: db.OpCount, Err: decodeError(res)}
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := decodeBody(res, &out); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return out.Count, nil
}

// Search returns one page of hits for q.
func (s *Store) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Search(
		s.es.Search.WithIndex(index),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, &db.Error{Op: db.OpSearch, Err: decodeError(res)}
	}

	var out searchResponse
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		e := db.SearchEntry{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			e.Score = *h.Score
		}
		entries = append(entries, e)
	}
	return &db.SearchResult{Entries: entries}, nil
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildSearchBody(q *db.Query) map[string]any {
	body := map[string]any{
		"from":  q.Offset,
		"size":  q.Limit,
		"query": buildQuery(q),
	}
	if len(q.Sort) > 0 {
		sorts := make([]map[string]any, 0, len(q.Sort))
		for _, sf := range q.Sort {
			name := sf.Field
			if sf.Score {
				name = "_score"
			}
			order := "asc"
			if sf.Desc {
				order = "desc"
			}
			sorts = append(sorts, map[string]any{name: map[string]string{"order": order}})
		}
		body["sort"] = sorts
	}
	return body
}

// buildQuery renders q as query DSL: match_all when empty, otherwise a bool
// query whose must clauses score and whose filter clauses only restrict.
func buildQuery(q *db.Query) map[string]any {
	if q.MatchAll() {
		return map[string]any{"match_all": map[string]any{}}
	}
	boolQuery := map[string]any{}
	if len(q.Must) > 0 {
		boolQuery["must"] = buildClauses(q.Must)
	}
	if len(q.Filter) > 0 {
		boolQuery["filter"] = buildClauses(q.Filter)
	}
	return map[string]any{"bool": boolQuery}
}

func buildClauses(clauses []db.Clause) []map[string]any {
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, buildClause(c))
	}
	return out
}

func buildClause(c db.Clause) map[string]any {
	field := c.Field
	if c.Keyword {
		field += ".keyword"
	}

	switch c.Kind {
	case db.ClausePhrase:
		return map[string]any{"match_phrase": map[string]any{field: c.Value}}
	case db.ClauseTerm:
		return map[string]any{"term": map[string]any{field: c.Value}}
	case db.ClauseTerms:
		return map[string]any{"terms": map[string]any{field: c.Values}}
	case db.ClauseRange:
		return map[string]any{"range": map[string]any{field: map[string]any{string(c.Op): c.Value}}}
	default:
		return map[string]any{"match_none": map[string]any{}}
	}
}

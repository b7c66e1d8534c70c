package elastic

import (
	"bytes"
	"context"
	"iter"
	"net/http"
	"time"

	"github.com/kailas-cloud/piecedex/internal/db"
)

const (
	scanBatch       = 500
	scrollKeepAlive = time.Minute
)

var scanBody = []byte(`{"_source":false,"sort":["_doc"],"query":{"match_all":{}}}`)

// Scan iterates all document ids of index through the scroll API. The scroll
// context is cleared when iteration ends, including early exit.
func (s *Store) Scan(ctx context.Context, index string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		page, err := s.openScroll(ctx, index)
		if err != nil {
			yield("", err)
			return
		}
		scrollID := page.ScrollID
		defer func() { s.clearScroll(scrollID) }()

		for len(page.Hits.Hits) > 0 {
			for _, h := range page.Hits.Hits {
				if !yield(h.ID, nil) {
					return
				}
			}
			page, err = s.nextScroll(ctx, scrollID)
			if err != nil {
				yield("", err)
				return
			}
			if page.ScrollID != "" {
				scrollID = page.ScrollID
			}
		}
	}
}

func (s *Store) openScroll(ctx context.Context, index string) (*searchResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Search(
		s.es.Search.WithIndex(index),
		s.es.Search.WithBody(bytes.NewReader(scanBody)),
		s.es.Search.WithSize(scanBatch),
		s.es.Search.WithScroll(scrollKeepAlive),
		s.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return nil, db.ErrIndexNotFound
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpScan, Err: decodeError(res)}
	}

	var out searchResponse
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return &out, nil
}

func (s *Store) nextScroll(ctx context.Context, scrollID string) (*searchResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.es.Scroll(
		s.es.Scroll.WithScrollID(scrollID),
		s.es.Scroll.WithScroll(scrollKeepAlive),
		s.es.Scroll.WithContext(ctx),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, &db.Error{Op: db.OpScan, Err: decodeError(res)}
	}

	var out searchResponse
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return &out, nil
}

// clearScroll runs detached from the caller's context so cancellation still
// releases the server-side scroll.
func (s *Store) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	res, err := s.es.ClearScroll(
		s.es.ClearScroll.WithScrollID(scrollID),
		s.es.ClearScroll.WithContext(ctx),
	)
	if err == nil {
		closeBody(res)
	}
}

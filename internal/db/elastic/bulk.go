package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/piecedex/internal/db"
)

// Bulk sends ops as one NDJSON _bulk request and waits for a refresh so the
// result is visible to the next search.
func (s *Store) Bulk(ctx context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error) {
	res := &db.BulkResult{Items: make([]db.BulkItemResult, len(ops))}
	if len(ops) == 0 {
		return res, nil
	}

	var buf bytes.Buffer
	sent := make([]int, 0, len(ops))
	enc := json.NewEncoder(&buf)

	for i, op := range ops {
		res.Items[i] = db.BulkItemResult{ID: op.ID, Action: op.Action}
		meta := map[string]map[string]string{
			string(op.Action): {"_index": index, "_id": op.ID},
		}

		switch op.Action {
		case db.BulkDelete:
			if err := enc.Encode(meta); err != nil {
				res.Items[i].Err = err
				continue
			}
		case db.BulkIndex:
			doc, err := json.Marshal(op.Doc)
			if err != nil {
				res.Items[i].Err = fmt.Errorf("encode document: %w", err)
				continue
			}
			if err := enc.Encode(meta); err != nil {
				res.Items[i].Err = err
				continue
			}
			buf.Write(doc)
			buf.WriteByte('\n')
		default:
			res.Items[i].Err = fmt.Errorf("unknown bulk action %q", op.Action)
			continue
		}
		sent = append(sent, i)
	}

	if len(sent) == 0 {
		return res, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.es.Bulk(&buf,
		s.es.Bulk.WithIndex(index),
		s.es.Bulk.WithRefresh("wait_for"),
		s.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}
	defer closeBody(resp)

	if resp.IsError() {
		return nil, &db.Error{Op: db.OpBulk, Err: decodeError(resp)}
	}

	var body bulkResponse
	if err := decodeBody(resp, &body); err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}
	if len(body.Items) != len(sent) {
		return nil, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("got %d item results for %d items", len(body.Items), len(sent))}
	}

	for j, item := range body.Items {
		i := sent[j]
		for _, r := range item {
			if err := r.err(ops[i].Action); err != nil {
				res.Items[i].Err = &db.Error{Op: db.OpBulk, Err: fmt.Errorf("id %s: %w", ops[i].ID, err)}
			}
		}
	}
	return res, nil
}

type bulkResponse struct {
	Errors bool                      `json:"errors"`
	Items  []map[string]bulkItemBody `json:"items"`
}

type bulkItemBody struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Result string `json:"result"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func (b bulkItemBody) err(action db.BulkAction) error {
	if action == db.BulkDelete && b.Status == http.StatusNotFound && b.Error == nil {
		return nil
	}
	if b.Error != nil {
		return fmt.Errorf("%s: %s (status %d)", b.Error.Type, b.Error.Reason, b.Status)
	}
	if b.Status >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d", b.Status)
	}
	return nil
}

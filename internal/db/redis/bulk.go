package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/piecedex/internal/db"
)

// sourceField holds the JSON copy of the document returned by searches.
const sourceField = "__source"

// Bulk applies ops in a single DoMulti round-trip. An index op is DEL followed
// by HSET so stale fields never survive an overwrite.
func (s *Store) Bulk(ctx context.Context, index string, ops []db.BulkOp) (*db.BulkResult, error) {
	res := &db.BulkResult{Items: make([]db.BulkItemResult, len(ops))}
	if len(ops) == 0 {
		return res, nil
	}

	prefix := keyPrefix(index)
	cmds := make([]rueidis.Completed, 0, 2*len(ops))
	owner := make([]int, 0, 2*len(ops))

	for i, op := range ops {
		res.Items[i] = db.BulkItemResult{ID: op.ID, Action: op.Action}
		key := prefix + op.ID

		switch op.Action {
		case db.BulkDelete:
			cmds = append(cmds, s.b().Del().Key(key).Build())
			owner = append(owner, i)

		case db.BulkIndex:
			fields, err := encodeHash(op.Doc)
			if err != nil {
				res.Items[i].Err = err
				continue
			}
			hset := s.b().Hset().Key(key).FieldValue()
			for _, k := range sortedKeys(fields) {
				hset = hset.FieldValue(k, fields[k])
			}
			cmds = append(cmds, s.b().Del().Key(key).Build(), hset.Build())
			owner = append(owner, i, i)

		default:
			res.Items[i].Err = fmt.Errorf("unknown bulk action %q", op.Action)
		}
	}

	if len(cmds) == 0 {
		return res, nil
	}

	for j, r := range s.doMulti(ctx, cmds...) {
		if err := r.Error(); err != nil {
			i := owner[j]
			if res.Items[i].Err == nil {
				res.Items[i].Err = &db.Error{Op: db.OpBulk, Err: fmt.Errorf("key %s: %w", prefix+ops[i].ID, err)}
			}
		}
	}
	return res, nil
}

// encodeHash turns a document into hash fields: one field per indexed value
// plus the JSON source.
func encodeHash(doc map[string]any) (map[string]string, error) {
	src, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode source: %w", err)
	}

	fields := make(map[string]string, len(doc)+1)
	fields[sourceField] = string(src)

	for name, v := range doc {
		if v == nil {
			continue
		}
		enc, ok := encodeValue(v)
		if !ok {
			return nil, fmt.Errorf("field %s: unsupported value type %T", name, v)
		}
		fields[name] = enc
	}
	return fields, nil
}

func encodeValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case time.Time:
		return strconv.FormatInt(t.UnixMilli(), 10), true
	case map[string]any:
		return strings.Join(flattenLeaves(t), keywordSeparator), true
	default:
		return "", false
	}
}

// flattenLeaves collects every scalar leaf of a nested object, sorted.
func flattenLeaves(m map[string]any) []string {
	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case nil:
		case map[string]any:
			for _, child := range t {
				walk(child)
			}
		case []any:
			for _, child := range t {
				walk(child)
			}
		default:
			if s, ok := encodeValue(t); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(t))
			}
		}
	}
	walk(m)
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

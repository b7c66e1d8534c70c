package redis

import (
	"context"
	"iter"
	"strings"

	"github.com/kailas-cloud/piecedex/internal/db"
)

const scanBatch = 500

// Scan walks the keyspace of index with SCAN and yields entry ids.
func (s *Store) Scan(ctx context.Context, index string) iter.Seq2[string, error] {
	prefix := keyPrefix(index)
	pattern := globEscaper.Replace(prefix) + "*"

	return func(yield func(string, error) bool) {
		var cursor uint64
		for {
			cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
			res, err := s.do(ctx, cmd).AsScanEntry()
			if err != nil {
				yield("", &db.Error{Op: db.OpScan, Err: err})
				return
			}
			for _, key := range res.Elements {
				if !yield(strings.TrimPrefix(key, prefix), nil) {
					return
				}
			}
			cursor = res.Cursor
			if cursor == 0 {
				return
			}
		}
	}
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"?", `\?`,
	"[", `\[`,
	"]", `\]`,
)

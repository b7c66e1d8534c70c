package db

import (
	"context"
	"iter"
	"time"
)

// Engine is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Engine interface {
	Pinger
	IndexManager
	Bulker
	Searcher
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Bulker applies many index/delete operations in one round-trip and reports
// the outcome of every item.
type Bulker interface {
	Bulk(ctx context.Context, index string, ops []BulkOp) (*BulkResult, error)
}

// Searcher runs compiled queries against an index.
type Searcher interface {
	Count(ctx context.Context, index string, q *Query) (int, error)
	Search(ctx context.Context, index string, q *Query) (*SearchResult, error)
}

// Scanner lists every entry id of an index. The sequence is one-shot and
// forward-only; it yields a non-nil error at most once, as its last element.
type Scanner interface {
	Scan(ctx context.Context, index string) iter.Seq2[string, error]
}

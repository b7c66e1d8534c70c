package request

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
)

// Pagination limits.
const (
	DefaultPageNum  = 1
	DefaultPageSize = 15
	MaxPageSize     = 1000
	// MaxOffset bounds the skipped entries so offsets fit every engine.
	MaxOffset = math.MaxInt32
	// MaxFilters caps the number of filters in one query.
	MaxFilters = 64
)

// Pagination is a 1-based page window. Values are always >= 1.
type Pagination struct {
	pageNum  int
	pageSize int
}

// NewPagination clamps values below 1 to 1 and page size to MaxPageSize.
// Page numbers past MaxOffset are lowered so Offset never exceeds it.
func NewPagination(pageNum, pageSize int) Pagination {
	size := min(max(pageSize, 1), MaxPageSize)
	return Pagination{
		pageNum:  min(max(pageNum, 1), MaxOffset/size+1),
		pageSize: size,
	}
}

// DefaultPagination returns page 1 of DefaultPageSize entries.
func DefaultPagination() Pagination {
	return Pagination{pageNum: DefaultPageNum, pageSize: DefaultPageSize}
}

// PageNum returns the 1-based page number.
func (p Pagination) PageNum() int { return p.pageNum }

// PageSize returns the page size.
func (p Pagination) PageSize() int { return p.pageSize }

// Offset returns the number of entries skipped before this page.
func (p Pagination) Offset() int { return (p.pageNum - 1) * p.pageSize }

// Query is a validated search query: a page window and filters that must all hold.
type Query struct {
	pagination Pagination
	filters    []filter.Filter
}

// New creates a Query. Filter order is kept.
func New(p Pagination, filters []filter.Filter) (Query, error) {
	if len(filters) > MaxFilters {
		return Query{}, fmt.Errorf("too many filters (max %d)", MaxFilters)
	}
	if p.pageNum == 0 {
		p = DefaultPagination()
	}
	return Query{pagination: p, filters: append([]filter.Filter(nil), filters...)}, nil
}

// Pagination returns the page window.
func (q Query) Pagination() Pagination { return q.pagination }

// Filters returns the filters in request order.
func (q Query) Filters() []filter.Filter { return q.filters }

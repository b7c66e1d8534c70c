package db

// ClauseKind enumerates the leaf clause shapes an engine must render.
type ClauseKind int

const (
	// ClausePhrase matches an analyzed phrase and contributes to relevance.
	ClausePhrase ClauseKind = iota
	// ClauseTerm matches one exact value.
	ClauseTerm
	// ClauseTerms matches any of several exact values.
	ClauseTerms
	// ClauseRange bounds a value from one side.
	ClauseRange
)

// RangeOp is the comparison used by a range clause.
type RangeOp string

// Range operators.
const (
	RangeGT  RangeOp = "gt"
	RangeGTE RangeOp = "gte"
	RangeLT  RangeOp = "lt"
	RangeLTE RangeOp = "lte"
)

// Clause is a single leaf constraint. Values are string, int64 or time.Time.
type Clause struct {
	Kind  ClauseKind
	Field string
	// Keyword targets the exact-match sub-field of a TEXT field.
	Keyword bool
	Value   any
	Values  []any
	Op      RangeOp
}

// SortField orders results. Score selects the relevance score instead of a field.
type SortField struct {
	Field string
	Score bool
	Desc  bool
}

// Query is an engine-neutral compiled query. Must clauses are scored, Filter
// clauses only restrict. No clauses at all means match everything.
type Query struct {
	Must   []Clause
	Filter []Clause
	Sort   []SortField
	Offset int
	Limit  int
}

// MatchAll reports whether the query carries no clauses.
func (q *Query) MatchAll() bool {
	return len(q.Must) == 0 && len(q.Filter) == 0
}

package search

import (
	"slices"
	"strconv"

	"github.com/kailas-cloud/piecedex/internal/db"
	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
)

// sortOrder ranks by relevance, oldest piece first on ties. Creation times
// are stored with millisecond precision, so piece_id breaks the remaining ties.
var sortOrder = []db.SortField{
	{Score: true, Desc: true},
	{Field: string(filter.FieldCreatedAt)},
	{Field: string(filter.FieldPieceID)},
}

// Compile turns a validated search query into an engine query. Match filters
// become scored phrase clauses; everything else only restricts.
func Compile(q request.Query) *db.Query {
	p := q.Pagination()
	out := &db.Query{
		Sort:   slices.Clone(sortOrder),
		Offset: p.Offset(),
		Limit:  p.PageSize(),
	}

	for _, f := range q.Filters() {
		field := string(f.Field())
		switch f.Operator() {
		case filter.OpMatch:
			out.Must = append(out.Must, db.Clause{
				Kind:  db.ClausePhrase,
				Field: field,
				Value: f.Value().AsString(),
			})
		case filter.OpEq:
			out.Filter = append(out.Filter, db.Clause{
				Kind:    db.ClauseTerm,
				Field:   field,
				Keyword: f.Field().FreeText(),
				Value:   operand(f.Field(), f.Value()),
			})
		case filter.OpIn:
			items := f.Value().Items()
			values := make([]any, 0, len(items))
			for _, it := range items {
				values = append(values, operand(f.Field(), it))
			}
			out.Filter = append(out.Filter, db.Clause{
				Kind:   db.ClauseTerms,
				Field:  field,
				Values: values,
			})
		case filter.OpGT, filter.OpGTE, filter.OpLT, filter.OpLTE:
			out.Filter = append(out.Filter, db.Clause{
				Kind:  db.ClauseRange,
				Field: field,
				Op:    db.RangeOp(f.Operator()),
				Value: operand(f.Field(), f.Value()),
			})
		}
	}
	return out
}

// operand renders a filter value with the type the engine mapping expects.
func operand(field filter.Field, v filter.Value) any {
	switch {
	case field == filter.FieldIndexed:
		return strconv.FormatBool(v.AsBool())
	case field == filter.FieldMetaData && v.Kind() == filter.KindInt:
		return strconv.FormatInt(v.AsInt(), 10)
	}
	switch v.Kind() {
	case filter.KindInt:
		return v.AsInt()
	case filter.KindTime:
		return v.AsTime()
	default:
		return v.AsString()
	}
}

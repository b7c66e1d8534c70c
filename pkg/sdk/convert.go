package piecedex

import (
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
)

func fromInternalDocument(d domdoc.Document) Document {
	return Document{ID: d.ID(), Name: d.Name(), Author: d.Author()}
}

func fromInternalTextPiece(tp domtp.TextPiece) TextPiece {
	return TextPiece{
		ID:           tp.ID(),
		DocumentName: tp.DocumentName(),
		Type:         TextPieceType(tp.Type()),
		Page:         tp.Page(),
		Text:         tp.Text(),
		Size:         tp.Size(),
		Indexed:      tp.Indexed(),
		MetaData:     tp.MetaData(),
		CreatedAt:    tp.CreatedAt(),
	}
}

func toInternalPatch(p TextPiecePatch) (patch.Patch, error) {
	var typ *string
	if p.Type != nil {
		s := string(*p.Type)
		typ = &s
	}
	return patch.New(p.Text, typ, p.Page, p.DocumentName, p.MetaData)
}

func fromInternalPage(p result.Page) SearchPage {
	hits := make([]SearchHit, len(p.Hits()))
	for i, h := range p.Hits() {
		hits[i] = SearchHit{TextPiece: fromInternalTextPiece(h.Piece()), Score: h.Score()}
	}
	return SearchPage{PageNum: p.PageNum(), PageSize: p.PageSize(), Total: p.Total(), Hits: hits}
}

func fromInternalReport(r domidx.Report) ReindexReport {
	return ReindexReport{RunID: r.RunID, Cleared: r.Cleared, Populated: r.Populated, Duration: r.Duration}
}

func toInternalQuery(req SearchRequest) (request.Query, error) {
	filters := make([]filter.Filter, 0, len(req.Filters))
	for i, f := range req.Filters {
		ff, err := toInternalFilter(f)
		if err != nil {
			return request.Query{}, fmt.Errorf("filter %d: %w", i, err)
		}
		filters = append(filters, ff)
	}

	p := request.DefaultPagination()
	if req.PageNum != 0 || req.PageSize != 0 {
		num, size := req.PageNum, req.PageSize
		if num == 0 {
			num = request.DefaultPageNum
		}
		if size == 0 {
			size = request.DefaultPageSize
		}
		p = request.NewPagination(num, size)
	}
	return request.New(p, filters)
}

func toInternalFilter(f Filter) (filter.Filter, error) {
	field, err := filter.ParseField(f.Field)
	if err != nil {
		return filter.Filter{}, err
	}
	op, err := filter.ParseOperator(f.Operator)
	if err != nil {
		return filter.Filter{}, err
	}
	v, err := toValue(f.Value)
	if err != nil {
		return filter.Filter{}, err
	}
	return filter.New(field, op, v)
}

func toValue(v any) (filter.Value, error) {
	switch t := v.(type) {
	case string:
		return filter.StringValue(t), nil
	case TextPieceType:
		return filter.StringValue(string(t)), nil
	case bool:
		return filter.BoolValue(t), nil
	case int:
		return filter.IntValue(int64(t)), nil
	case int32:
		return filter.IntValue(int64(t)), nil
	case int64:
		return filter.IntValue(t), nil
	case time.Time:
		return filter.TimeValue(t), nil
	case []int:
		return listOf(t, func(i int) filter.Value { return filter.IntValue(int64(i)) }), nil
	case []int64:
		return listOf(t, filter.IntValue), nil
	case []string:
		return listOf(t, filter.StringValue), nil
	case nil:
		return filter.Value{}, fmt.Errorf("value is required")
	default:
		return filter.Value{}, fmt.Errorf("unsupported value of type %T", v)
	}
}

func listOf[T any](items []T, conv func(T) filter.Value) filter.Value {
	vs := make([]filter.Value, len(items))
	for i, it := range items {
		vs[i] = conv(it)
	}
	return filter.ListValue(vs...)
}

package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	tppatch "github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
)

// CreateDocumentRequest is the body of POST /documents.
type CreateDocumentRequest struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

// PatchDocumentRequest is the body of PATCH /documents/{document_id}.
type PatchDocumentRequest struct {
	Author *string `json:"author"`
}

// DocumentResponse is the wire form of a document.
type DocumentResponse struct {
	DocumentID int64  `json:"document_id"`
	Name       string `json:"name"`
	Author     string `json:"author"`
}

// CreateTextPieceRequest is the body of POST /text_pieces.
type CreateTextPieceRequest struct {
	Text         string         `json:"text"`
	Type         string         `json:"type"`
	Page         int            `json:"page"`
	DocumentName string         `json:"document_name"`
	MetaData     map[string]any `json:"meta_data"`
}

// PatchTextPieceRequest is the body of PATCH /text_pieces/{piece_id}.
// MetaData stays raw so that an explicit null can clear it.
type PatchTextPieceRequest struct {
	Text         *string         `json:"text"`
	Type         *string         `json:"type"`
	Page         *int            `json:"page"`
	DocumentName *string         `json:"document_name"`
	MetaData     json.RawMessage `json:"meta_data"`
}

// TextPieceResponse is the wire form of a text piece.
type TextPieceResponse struct {
	PieceID      int64          `json:"piece_id"`
	DocumentName string         `json:"document_name"`
	Type         string         `json:"type"`
	Page         int            `json:"page"`
	Text         string         `json:"text"`
	Size         int            `json:"size"`
	Indexed      bool           `json:"indexed"`
	MetaData     map[string]any `json:"meta_data"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PaginationRequest selects a result page. Absent values take defaults.
type PaginationRequest struct {
	PageNum  *int `json:"page_num"`
	PageSize *int `json:"page_size"`
}

// FilterRequest is one search condition.
type FilterRequest struct {
	Field    string          `json:"field"`
	Operator string          `json:"operator"`
	Value    json.RawMessage `json:"value"`
}

// SearchRequest is the body of POST /index/{collection_id}/search.
type SearchRequest struct {
	Pagination *PaginationRequest `json:"pagination"`
	Filters    []FilterRequest    `json:"filters"`
}

// SearchHit is a matching piece with its score.
type SearchHit struct {
	TextPieceResponse
	Score float64 `json:"score"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	PageNum  int         `json:"page_num"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
	Data     []SearchHit `json:"data"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(d domdoc.Document) DocumentResponse {
	return DocumentResponse{DocumentID: d.ID(), Name: d.Name(), Author: d.Author()}
}

func textPieceToResponse(tp domtp.TextPiece) TextPieceResponse {
	return TextPieceResponse{
		PieceID:      tp.ID(),
		DocumentName: tp.DocumentName(),
		Type:         string(tp.Type()),
		Page:         tp.Page(),
		Text:         tp.Text(),
		Size:         tp.Size(),
		Indexed:      tp.Indexed(),
		MetaData:     tp.MetaData(),
		CreatedAt:    tp.CreatedAt(),
	}
}

func pageToResponse(p result.Page) SearchResponse {
	data := make([]SearchHit, len(p.Hits()))
	for i, h := range p.Hits() {
		data[i] = SearchHit{TextPieceResponse: textPieceToResponse(h.Piece()), Score: h.Score()}
	}
	return SearchResponse{PageNum: p.PageNum(), PageSize: p.PageSize(), Total: p.Total(), Data: data}
}

func patchFromRequest(req PatchTextPieceRequest) (tppatch.Patch, error) {
	var meta *map[string]any
	if len(req.MetaData) > 0 {
		var m map[string]any
		if !bytes.Equal(bytes.TrimSpace(req.MetaData), []byte("null")) {
			if err := json.Unmarshal(req.MetaData, &m); err != nil {
				return tppatch.Patch{}, fmt.Errorf("meta_data must be an object or null")
			}
		}
		meta = &m
	}
	return tppatch.New(req.Text, req.Type, req.Page, req.DocumentName, meta)
}

func queryFromRequest(req SearchRequest, maxFilters int) (request.Query, error) {
	if len(req.Filters) > maxFilters {
		return request.Query{}, fmt.Errorf("too many filters: %d (max %d)", len(req.Filters), maxFilters)
	}

	filters := make([]filter.Filter, 0, len(req.Filters))
	for i, fr := range req.Filters {
		f, err := filterFromRequest(fr)
		if err != nil {
			return request.Query{}, fmt.Errorf("filters[%d]: %w", i, err)
		}
		filters = append(filters, f)
	}
	return request.New(paginationFromRequest(req.Pagination), filters)
}

func filterFromRequest(fr FilterRequest) (filter.Filter, error) {
	field, err := filter.ParseField(fr.Field)
	if err != nil {
		return filter.Filter{}, err
	}
	op, err := filter.ParseOperator(fr.Operator)
	if err != nil {
		return filter.Filter{}, err
	}
	v, err := filter.Parse(fr.Value)
	if err != nil {
		return filter.Filter{}, err
	}
	return filter.New(field, op, v)
}

func paginationFromRequest(p *PaginationRequest) request.Pagination {
	if p == nil {
		return request.DefaultPagination()
	}
	num, size := request.DefaultPageNum, request.DefaultPageSize
	if p.PageNum != nil {
		num = *p.PageNum
	}
	if p.PageSize != nil {
		size = *p.PageSize
	}
	return request.NewPagination(num, size)
}

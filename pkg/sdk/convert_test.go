package piecedex

import (
	"testing"
	"time"

	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
)

func TestToValue(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		in       any
		wantKind filter.Kind
		wantErr  bool
	}{
		{"string", "x", filter.KindString, false},
		{"piece type", TypeTitle, filter.KindString, false},
		{"bool", true, filter.KindBool, false},
		{"int", 3, filter.KindInt, false},
		{"int64", int64(3), filter.KindInt, false},
		{"time", now, filter.KindTime, false},
		{"int list", []int{1, 2}, filter.KindList, false},
		{"string list", []string{"a"}, filter.KindList, false},
		{"nil", nil, 0, true},
		{"float", 1.5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := toValue(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", v.Kind(), tt.wantKind)
			}
		})
	}
}

func TestToInternalQuery_Pagination(t *testing.T) {
	tests := []struct {
		name              string
		req               SearchRequest
		wantNum, wantSize int
	}{
		{"defaults", SearchRequest{}, 1, 15},
		{"size only", SearchRequest{PageSize: 50}, 1, 50},
		{"clamped", SearchRequest{PageNum: -1, PageSize: 5000}, 1, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := toInternalQuery(tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if p := q.Pagination(); p.PageNum() != tt.wantNum || p.PageSize() != tt.wantSize {
				t.Errorf("pagination = %d/%d, want %d/%d", p.PageNum(), p.PageSize(), tt.wantNum, tt.wantSize)
			}
		})
	}
}

func TestToInternalQuery_FilterErrors(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
	}{
		{"unknown field", Eq("author", "A")},
		{"unknown operator", Filter{Field: "page", Operator: "between", Value: 1}},
		{"match on page", Match("page", "1")},
		{"bad type", Eq("type", "wrong type")},
		{"empty in", In[int]("page")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := toInternalQuery(SearchRequest{Filters: []Filter{tt.f}}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestToInternalQuery_CreatedAtTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	q, err := toInternalQuery(SearchRequest{Filters: []Filter{GTE("created_at", at), LT("created_at", "2024-04-01T00:00:00Z")}})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range q.Filters() {
		if f.Value().Kind() != filter.KindTime {
			t.Errorf("%s operand kind = %v, want time", f.Operator(), f.Value().Kind())
		}
	}
}

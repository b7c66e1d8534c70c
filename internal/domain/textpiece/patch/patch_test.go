package patch

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNew_Empty(t *testing.T) {
	_, err := New(nil, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for empty patch")
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_MetaDataNull(t *testing.T) {
	var null map[string]any
	p, err := New(nil, nil, nil, nil, &null)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasMetaData() || p.MetaData() != nil {
		t.Errorf("want explicit null metadata, got has=%v value=%v", p.HasMetaData(), p.MetaData())
	}
}

func TestNew_MetaDataAbsent(t *testing.T) {
	p, err := New(strPtr("x"), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HasMetaData() {
		t.Error("HasMetaData() = true for absent metadata")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		text    *string
		page    *int
		docName *string
		wantErr string
	}{
		{"empty text", strPtr(""), nil, nil, "text must not be empty"},
		{"zero page", nil, intPtr(0), nil, "page must be greater than 0"},
		{"empty document name", nil, nil, strPtr(""), "document_name must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.text, nil, tt.page, tt.docName, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

package filter

import (
	"fmt"
	"strings"
	"time"
)

// Field names a filterable text piece attribute.
type Field string

// Text-kind fields.
const (
	FieldMetaData     Field = "meta_data"
	FieldDocumentName Field = "document_name"
	FieldIndexed      Field = "indexed"
	FieldType         Field = "type"
	FieldText         Field = "text"
)

// Countable fields.
const (
	FieldPieceID   Field = "piece_id"
	FieldSize      Field = "size"
	FieldPage      Field = "page"
	FieldCreatedAt Field = "created_at"
)

var fields = map[Field]bool{
	FieldMetaData: false, FieldDocumentName: false, FieldIndexed: false, FieldType: false, FieldText: false,
	FieldPieceID: true, FieldSize: true, FieldPage: true, FieldCreatedAt: true,
}

// ParseField validates a raw field name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fields[f]; !ok {
		return "", fmt.Errorf("unknown filter field %q", s)
	}
	return f, nil
}

// Countable reports whether the field is ordered (numeric or time).
func (f Field) Countable() bool { return fields[f] }

// FreeText reports whether the field holds analyzed text.
func (f Field) FreeText() bool { return f == FieldText || f == FieldDocumentName }

// Operator is a filter comparison.
type Operator string

// Operators. Eq and Match apply to text fields; Eq, In and the comparisons to
// countable fields.
const (
	OpEq    Operator = "eq"
	OpMatch Operator = "match"
	OpIn    Operator = "in"
	OpGT    Operator = "gt"
	OpGTE   Operator = "gte"
	OpLT    Operator = "lt"
	OpLTE   Operator = "lte"
)

// ParseOperator validates a raw operator name.
func ParseOperator(s string) (Operator, error) {
	switch o := Operator(s); o {
	case OpEq, OpMatch, OpIn, OpGT, OpGTE, OpLT, OpLTE:
		return o, nil
	default:
		return "", fmt.Errorf("unknown filter operator %q", s)
	}
}

// CountableOnly reports whether the operator is meaningless on text fields.
func (o Operator) CountableOnly() bool {
	switch o {
	case OpIn, OpGT, OpGTE, OpLT, OpLTE:
		return true
	default:
		return false
	}
}

// Filter is a validated (field, operator, value) constraint.
type Filter struct {
	field Field
	op    Operator
	value Value
}

// New validates and creates a Filter. Rules are checked in a fixed order and
// the first violation is returned:
//
//  1. match only on text and document_name
//  2. text-kind fields reject in, gt, gte, lt, lte
//  3. in requires a list
//  4. indexed requires a boolean
//  5. type requires "title" or "paragraph"
//  6. lists only with in and never empty; operand types per field;
//     created_at accepts RFC 3339 strings or unix milliseconds and is
//     normalized to a time
func New(field Field, op Operator, value Value) (Filter, error) {
	if _, ok := fields[field]; !ok {
		return Filter{}, fmt.Errorf("unknown filter field %q", field)
	}
	if _, err := ParseOperator(string(op)); err != nil {
		return Filter{}, err
	}

	if op == OpMatch && !field.FreeText() {
		return Filter{}, fmt.Errorf("operator match is only allowed on %s and %s, got %s",
			FieldText, FieldDocumentName, field)
	}
	if !field.Countable() && op.CountableOnly() {
		return Filter{}, fmt.Errorf("operator %s is not allowed on text field %s", op, field)
	}
	if op == OpIn && !value.IsList() {
		return Filter{}, fmt.Errorf("operator in requires a list value, got %s", value.kind)
	}
	if field == FieldIndexed && value.kind != KindBool {
		return Filter{}, fmt.Errorf("field %s requires a boolean value, got %s", field, value)
	}
	if field == FieldType && !(value.kind == KindString && (value.s == "title" || value.s == "paragraph")) {
		return Filter{}, fmt.Errorf("field %s requires one of \"title\", \"paragraph\", got %s", field, value)
	}

	normalized, err := checkOperand(field, op, value)
	if err != nil {
		return Filter{}, err
	}
	return Filter{field: field, op: op, value: normalized}, nil
}

func checkOperand(field Field, op Operator, value Value) (Value, error) {
	if value.IsList() {
		if op != OpIn {
			return Value{}, fmt.Errorf("list value is only allowed with operator in")
		}
		if len(value.items) == 0 {
			return Value{}, fmt.Errorf("operator in requires at least one value")
		}
		items := make([]Value, 0, len(value.items))
		for _, it := range value.items {
			n, err := checkScalar(field, it)
			if err != nil {
				return Value{}, err
			}
			items = append(items, n)
		}
		return Value{kind: KindList, items: items}, nil
	}
	return checkScalar(field, value)
}

func checkScalar(field Field, v Value) (Value, error) {
	switch field {
	case FieldIndexed, FieldType:
		return v, nil
	case FieldText, FieldDocumentName:
		if v.kind != KindString {
			return Value{}, fmt.Errorf("field %s requires a string value, got %s", field, v)
		}
		if strings.TrimSpace(v.s) == "" {
			return Value{}, fmt.Errorf("field %s requires a non-empty string", field)
		}
		return v, nil
	case FieldMetaData:
		if v.kind != KindString && v.kind != KindInt {
			return Value{}, fmt.Errorf("field %s requires a string or integer value, got %s", field, v)
		}
		return v, nil
	case FieldCreatedAt:
		return toTime(v)
	default:
		if v.kind != KindInt {
			return Value{}, fmt.Errorf("field %s requires an integer value, got %s", field, v)
		}
		return v, nil
	}
}

func toTime(v Value) (Value, error) {
	switch v.kind {
	case KindTime:
		return v, nil
	case KindInt:
		return TimeValue(time.UnixMilli(v.i).UTC()), nil
	case KindString:
		t, err := time.Parse(time.RFC3339Nano, v.s)
		if err != nil {
			return Value{}, fmt.Errorf("field %s requires an RFC 3339 time or unix milliseconds, got %s",
				FieldCreatedAt, v)
		}
		return TimeValue(t), nil
	default:
		return Value{}, fmt.Errorf("field %s requires an RFC 3339 time or unix milliseconds, got %s",
			FieldCreatedAt, v)
	}
}

// Field returns the constrained field.
func (f Filter) Field() Field { return f.field }

// Operator returns the comparison.
func (f Filter) Operator() Operator { return f.op }

// Value returns the operand; created_at operands are always KindTime.
func (f Filter) Value() Value { return f.value }

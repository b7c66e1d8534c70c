package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindInt Kind = iota
	KindString
	KindBool
	KindTime
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a filter operand: an integer, string, boolean, time, or a flat list
// of integer/string scalars.
type Value struct {
	kind  Kind
	i     int64
	s     string
	b     bool
	t     time.Time
	items []Value
}

// IntValue creates an integer value.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// StringValue creates a string value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// BoolValue creates a boolean value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// TimeValue creates a time value.
func TimeValue(v time.Time) Value { return Value{kind: KindTime, t: v} }

// ListValue creates a list value. Nested lists are flattened away by Parse and
// must not be passed here.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), items...)}
}

// Kind returns the held variant.
func (v Value) Kind() Kind { return v.kind }

// IsList reports whether the value is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// AsInt returns the integer; zero unless Kind is KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsString returns the string; empty unless Kind is KindString.
func (v Value) AsString() string { return v.s }

// AsBool returns the boolean; false unless Kind is KindBool.
func (v Value) AsBool() bool { return v.b }

// AsTime returns the time; zero unless Kind is KindTime.
func (v Value) AsTime() time.Time { return v.t }

// Items returns the list elements; nil unless Kind is KindList.
func (v Value) Items() []Value { return v.items }

// String renders the value for error messages.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(it.String())
		}
		buf.WriteByte(']')
		return buf.String()
	default:
		return "?"
	}
}

// Parse decodes a JSON operand. Numbers must be integral; list elements must
// be integers or strings.
func Parse(raw json.RawMessage) (Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}, errors.New("value is required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}, fmt.Errorf("invalid value: %w", err)
	}

	switch t := v.(type) {
	case []any:
		items := make([]Value, 0, len(t))
		for i, el := range t {
			item, err := scalar(el)
			if err != nil {
				return Value{}, fmt.Errorf("list element %d: %w", i, err)
			}
			if item.kind == KindBool {
				return Value{}, fmt.Errorf("list element %d: must be an integer or a string", i)
			}
			items = append(items, item)
		}
		return Value{kind: KindList, items: items}, nil
	default:
		return scalar(t)
	}
}

func scalar(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, errors.New("value is required")
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("number %s must be an integer", t)
		}
		return IntValue(n), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", v)
	}
}

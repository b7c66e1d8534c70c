package piecedex

// Match requires field (text or document_name) to contain the phrase.
func Match(field, phrase string) Filter {
	return Filter{Field: field, Operator: "match", Value: phrase}
}

// Eq requires field to equal v.
func Eq(field string, v any) Filter { return Filter{Field: field, Operator: "eq", Value: v} }

// In requires field to equal one of vs.
func In[T int | int64 | string](field string, vs ...T) Filter {
	return Filter{Field: field, Operator: "in", Value: vs}
}

// GT requires field to be greater than v.
func GT(field string, v any) Filter { return Filter{Field: field, Operator: "gt", Value: v} }

// GTE requires field to be greater than or equal to v.
func GTE(field string, v any) Filter { return Filter{Field: field, Operator: "gte", Value: v} }

// LT requires field to be less than v.
func LT(field string, v any) Filter { return Filter{Field: field, Operator: "lt", Value: v} }

// LTE requires field to be less than or equal to v.
func LTE(field string, v any) Filter { return Filter{Field: field, Operator: "lte", Value: v} }

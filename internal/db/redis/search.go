package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/piecedex/internal/db"
)

const scoreField = "__score"

// Count returns the number of entries matching q via FT.SEARCH with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, index string, q *db.Query) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(index, buildQuery(q), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// Search runs q via FT.AGGREGATE, which unlike FT.SEARCH can sort by score
// and a field at once.
func (s *Store) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(buildAggregateArgs(index, q)...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseAggregateResult(raw, keyPrefix(index))
}

func buildAggregateArgs(index string, q *db.Query) []string {
	load := []string{"@__key", "@" + sourceField}
	var sortArgs []string
	for _, sf := range q.Sort {
		name := sf.Field
		if sf.Score {
			name = scoreField
		} else {
			load = append(load, "@"+name)
		}
		dir := "ASC"
		if sf.Desc {
			dir = "DESC"
		}
		sortArgs = append(sortArgs, "@"+name, dir)
	}

	args := []string{index, buildQuery(q), "ADDSCORES", "LOAD", strconv.Itoa(len(load))}
	args = append(args, load...)
	if len(sortArgs) > 0 {
		args = append(args, "SORTBY", strconv.Itoa(len(sortArgs)))
		args = append(args, sortArgs...)
	}
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
	return args
}

// --- Result parsing ---

func parseAggregateResult(raw []rueidis.RedisMessage, prefix string) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)-1)
	// [total, row1, row2, ...]; each row is a flat field/value array.
	for i := 1; i < len(raw); i++ {
		row, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(row)

		entry := db.SearchEntry{
			ID:     strings.TrimPrefix(fields["__key"], prefix),
			Source: []byte(fields[sourceField]),
		}
		if scoreStr, ok := fields[scoreField]; ok {
			if score, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = score
			}
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery renders the compiled query in DIALECT 2 syntax. Must and filter
// clauses are intersected; only phrase clauses contribute text scores.
func buildQuery(q *db.Query) string {
	if q.MatchAll() {
		return "*"
	}
	parts := make([]string, 0, len(q.Must)+len(q.Filter))
	for _, c := range q.Must {
		parts = append(parts, buildClause(c))
	}
	for _, c := range q.Filter {
		parts = append(parts, buildClause(c))
	}
	return strings.Join(parts, " ")
}

func buildClause(c db.Clause) string {
	field := c.Field
	if c.Keyword {
		field += keywordSuffix
	}

	switch c.Kind {
	case db.ClausePhrase:
		return fmt.Sprintf(`@%s:"%s"`, field, phraseEscaper.Replace(fmt.Sprint(c.Value)))
	case db.ClauseTerm:
		return buildTerm(field, c.Value)
	case db.ClauseTerms:
		return buildTerms(field, c.Values)
	case db.ClauseRange:
		return buildRange(field, c.Op, c.Value)
	default:
		return ""
	}
}

func buildTerm(field string, v any) string {
	if n, ok := numericValue(v); ok {
		return fmt.Sprintf("@%s:[%s %s]", field, n, n)
	}
	return buildTagFilter(field, fmt.Sprint(v))
}

func buildTerms(field string, values []any) string {
	tags := make([]string, 0, len(values))
	var numeric []string
	for _, v := range values {
		if n, ok := numericValue(v); ok {
			numeric = append(numeric, fmt.Sprintf("@%s:[%s %s]", field, n, n))
			continue
		}
		tags = append(tags, tagEscaper.Replace(fmt.Sprint(v)))
	}
	var parts []string
	if len(tags) > 0 {
		parts = append(parts, fmt.Sprintf("@%s:{%s}", field, strings.Join(tags, " | ")))
	}
	parts = append(parts, numeric...)
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildRange(field string, op db.RangeOp, v any) string {
	n, ok := numericValue(v)
	if !ok {
		n = fmt.Sprint(v)
	}
	minBound, maxBound := "-inf", "+inf"
	switch op {
	case db.RangeGT:
		minBound = "(" + n
	case db.RangeGTE:
		minBound = n
	case db.RangeLT:
		maxBound = "(" + n
	case db.RangeLTE:
		maxBound = n
	}
	return fmt.Sprintf("@%s:[%s %s]", field, minBound, maxBound)
}

// numericValue renders ints and times (as unix millis) for numeric syntax.
func numericValue(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case time.Time:
		return strconv.FormatInt(t.UnixMilli(), 10), true
	default:
		return "", false
	}
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)

var phraseEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
)

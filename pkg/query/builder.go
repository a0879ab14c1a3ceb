package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is a view property name of the
// builder's projection.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "name,-createdAt" into ascending name and descending
// createdAt. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// predicate is a WHERE term whose "?" marks are numbered when the statement
// is rendered.
type predicate struct {
	clause string
	args   []any
}

// Builder assembles SELECT statements over a ProjectionMap. Filters with nil
// values are skipped, so optional filter structs apply directly.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder ordered by defaultSort unless OrderByFields
// overrides it.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// WhereEquals filters field = value.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = ?", value)
}

// WhereRange filters from <= field < to. A nil bound is open.
func (b *Builder) WhereRange(field string, from, to any) *Builder {
	col := b.projection.Column(field)
	if !isNil(from) {
		b.where(col+" >= ?", from)
	}
	if !isNil(to) {
		b.where(col+" < ?", to)
	}
	return b
}

// WhereSearch matches search case-insensitively against any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	terms := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		terms[i] = b.projection.Column(f) + " ILIKE ?"
		args[i] = pattern
	}
	return b.where("("+strings.Join(terms, " OR ")+")", args...)
}

// OrderByFields replaces the default sort.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Build renders the filtered, ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.renderWhere()
	return b.selectFrom() + where + b.renderOrderBy(), args
}

// BuildCount renders SELECT COUNT(*) under the same filters.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.renderWhere()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage renders Build with LIMIT and OFFSET appended.
func (b *Builder) BuildPage(limit, offset int) (string, []any) {
	q, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", q, limit, offset), args
}

// BuildSingle renders a lookup of one row by idField, ignoring any filters.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectFrom() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.predicates = append(b.predicates, predicate{clause: clause, args: args})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table()
}

func (b *Builder) renderWhere() (string, []any) {
	if len(b.predicates) == 0 {
		return "", nil
	}

	var (
		terms = make([]string, len(b.predicates))
		args  []any
	)
	for i, p := range b.predicates {
		var sb strings.Builder
		rest := p.clause
		for _, arg := range p.args {
			before, after, _ := strings.Cut(rest, "?")
			args = append(args, arg)
			sb.WriteString(before)
			sb.WriteString("$" + strconv.Itoa(len(args)))
			rest = after
		}
		sb.WriteString(rest)
		terms[i] = sb.String()
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func (b *Builder) renderOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	var terms []string
	for _, f := range fields {
		// sort fields arrive from query strings; unmapped names never reach SQL
		if !b.projection.Has(f.Field) {
			continue
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms = append(terms, b.projection.Column(f.Field)+dir)
	}

	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

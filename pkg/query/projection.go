// Package query builds parameterized PostgreSQL statements from projection maps
// that translate view property names into table columns.
package query

import (
	"strings"
)

type projected struct {
	name string
	view string
}

// ProjectionMap maps view property names onto the columns of one aliased table.
// Column order follows the order of Project calls, which scan functions rely on.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []projected
	index   map[string]int
}

// NewProjectionMap creates an empty ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		index:  make(map[string]int),
	}
}

// Project maps column to viewName.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	p.index[viewName] = len(p.columns)
	p.columns = append(p.columns, projected{name: column, view: viewName})
	return p
}

// Table returns "schema.table alias".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column returns the alias-qualified column for viewName.
// Unmapped names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	i, ok := p.index[viewName]
	if !ok {
		return viewName
	}
	return p.alias + "." + p.columns[i].name
}

// Has reports whether viewName is mapped.
func (p *ProjectionMap) Has(viewName string) bool {
	_, ok := p.index[viewName]
	return ok
}

// Columns returns the qualified select list.
func (p *ProjectionMap) Columns() string {
	return p.join(p.alias + ".")
}

// Returning returns a RETURNING clause over the unqualified columns, for
// INSERT, UPDATE and DELETE statements that scan the same shape as a SELECT.
func (p *ProjectionMap) Returning() string {
	return " RETURNING " + p.join("")
}

func (p *ProjectionMap) join(prefix string) string {
	var sb strings.Builder
	for i, c := range p.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(prefix)
		sb.WriteString(c.name)
	}
	return sb.String()
}

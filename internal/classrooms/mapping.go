package classrooms

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classrooms", "cr").
	Project("id", "ID").
	Project("name", "Name").
	Project("grade", "Grade").
	Project("division", "Division").
	Project("is_active", "IsActive")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters narrows directory listings. Nil fields are ignored.
type Filters struct {
	Division *Division `json:"division,omitempty"`
	Active   *bool     `json:"active,omitempty"`
	Search   *string   `json:"search,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Division", f.Division).
		WhereEquals("IsActive", f.Active).
		WhereSearch(f.Search, "Name", "Grade")
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown divisions and malformed booleans are rejected.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if d := values.Get("division"); d != "" {
		div, err := ParseDivision(d)
		if err != nil {
			return f, err
		}
		f.Division = &div
	}

	if a := values.Get("active"); a != "" {
		active, err := strconv.ParseBool(a)
		if err != nil {
			return f, errInvalidActive
		}
		f.Active = &active
	}

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	return f, nil
}

func scanClassroom(s repository.Scanner) (Classroom, error) {
	var c Classroom
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Grade,
		&c.Division,
		&c.IsActive,
	)
	return c, err
}

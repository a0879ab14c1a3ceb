package winners

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "monthly_winners", "mw").
	Project("id", "ID").
	Project("classroom_id", "ClassroomID").
	Project("division", "Division").
	Project("year", "Year").
	Project("month", "Month").
	Project("total_score", "TotalScore").
	Project("average_score", "AverageScore").
	Project("evaluation_count", "EvaluationCount").
	Project("declared_by", "DeclaredBy").
	Project("declared_at", "DeclaredAt").
	Project("notes", "Notes")

var defaultSort = []query.SortField{
	{Field: "Year", Descending: true},
	{Field: "Month", Descending: true},
	{Field: "Division"},
}

// Filters narrows winner listings. Nil fields are ignored.
type Filters struct {
	Division    *classrooms.Division `json:"division,omitempty"`
	Year        *int                 `json:"year,omitempty"`
	Month       *int                 `json:"month,omitempty"`
	ClassroomID *uuid.UUID           `json:"classroom_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Division", f.Division).
		WhereEquals("Year", f.Year).
		WhereEquals("Month", f.Month).
		WhereEquals("ClassroomID", f.ClassroomID)
}

// Matches reports whether w satisfies the filters.
func (f Filters) Matches(w MonthlyWinner) bool {
	switch {
	case f.Division != nil && w.Division != *f.Division:
		return false
	case f.Year != nil && w.Year != *f.Year:
		return false
	case f.Month != nil && w.Month != *f.Month:
		return false
	case f.ClassroomID != nil && w.ClassroomID != *f.ClassroomID:
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Supported parameters: division, year, month, classroom_id. Year and month
// may be given independently.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if d := values.Get("division"); d != "" {
		div, err := classrooms.ParseDivision(d)
		if err != nil {
			return f, err
		}
		f.Division = &div
	}

	y, m := values.Get("year"), values.Get("month")
	if y != "" {
		year, _, err := evaluations.ParsePeriod(y, "1")
		if err != nil {
			return f, err
		}
		f.Year = &year
	}
	if m != "" {
		_, month, err := evaluations.ParsePeriod("1", m)
		if err != nil {
			return f, err
		}
		f.Month = &month
	}

	if c := values.Get("classroom_id"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			return f, faults.Validation("classroom_id", "classroom_id must be a UUID")
		}
		f.ClassroomID = &id
	}

	return f, nil
}

func scanWinner(s repository.Scanner) (MonthlyWinner, error) {
	var w MonthlyWinner
	err := s.Scan(
		&w.ID,
		&w.ClassroomID,
		&w.Division,
		&w.Year,
		&w.Month,
		&w.TotalScore,
		&w.AverageScore,
		&w.EvaluationCount,
		&w.DeclaredBy,
		&w.DeclaredAt,
		&w.Notes,
	)
	return w, err
}

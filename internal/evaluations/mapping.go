package evaluations

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "evaluations", "e").
	Project("id", "ID").
	Project("classroom_id", "ClassroomID").
	Project("supervisor_id", "SupervisorID").
	Project("evaluation_date", "EvaluationDate").
	Project("total_score", "TotalScore").
	Project("max_score", "MaxScore").
	Project("items", "Items").
	Project("created_at", "CreatedAt")

var archiveProjection = query.
	NewProjectionMap("public", "archive_evaluations", "ae").
	Project("id", "ID").
	Project("classroom_id", "ClassroomID").
	Project("supervisor_id", "SupervisorID").
	Project("evaluation_date", "EvaluationDate").
	Project("total_score", "TotalScore").
	Project("max_score", "MaxScore").
	Project("items", "Items").
	Project("created_at", "CreatedAt").
	Project("archived_at", "ArchivedAt")

// Newest first; id keeps equal dates in a stable order.
var defaultSort = []query.SortField{
	{Field: "EvaluationDate", Descending: true},
	{Field: "CreatedAt", Descending: true},
	{Field: "ID"},
}

// Filters narrows evaluation queries. Nil fields are ignored.
// From is inclusive and To exclusive, both compared against EvaluationDate.
type Filters struct {
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

// Month returns filters covering one calendar month.
func Month(year, month int) Filters {
	from, to := MonthWindow(year, month)
	return Filters{From: &from, To: &to}
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ClassroomID", f.ClassroomID).
		WhereRange("EvaluationDate", f.From, f.To)
}

// Matches reports whether e satisfies the filters.
func (f Filters) Matches(e Evaluation) bool {
	if f.ClassroomID != nil && e.ClassroomID != *f.ClassroomID {
		return false
	}
	if f.From != nil && e.EvaluationDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.EvaluationDate.Before(*f.To) {
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Supported parameters: classroom_id, from, to (YYYY-MM-DD), and the
// year + month pair which selects a whole calendar month.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if c := values.Get("classroom_id"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			return f, faults.Validation("classroom_id", "classroom_id must be a UUID")
		}
		f.ClassroomID = &id
	}

	if y, m := values.Get("year"), values.Get("month"); y != "" || m != "" {
		year, month, err := ParsePeriod(y, m)
		if err != nil {
			return f, err
		}
		window := Month(year, month)
		f.From, f.To = window.From, window.To
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &f.From},
		{"to", &f.To},
	} {
		v := values.Get(p.name)
		if v == "" {
			continue
		}
		d, err := time.Parse(DateLayout, v)
		if err != nil {
			return f, faults.Validation(p.name, p.name+" must use the YYYY-MM-DD format")
		}
		*p.dst = &d
	}

	return f, nil
}

// ParsePeriod parses a year and month query pair. Both are required together.
func ParsePeriod(year, month string) (int, int, error) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return 0, 0, faults.Validation("year", "year must be a positive integer")
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, faults.Validation("month", "month must be between 1 and 12")
	}
	return y, m, nil
}

func scanEvaluation(s repository.Scanner) (Evaluation, error) {
	var e Evaluation
	var itemsRaw []byte

	err := s.Scan(
		&e.ID,
		&e.ClassroomID,
		&e.SupervisorID,
		&e.EvaluationDate,
		&e.TotalScore,
		&e.MaxScore,
		&itemsRaw,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	e.Items, err = decodeItems(itemsRaw)
	return e, err
}

func scanArchived(s repository.Scanner) (Archived, error) {
	var a Archived
	var itemsRaw []byte

	err := s.Scan(
		&a.ID,
		&a.ClassroomID,
		&a.SupervisorID,
		&a.EvaluationDate,
		&a.TotalScore,
		&a.MaxScore,
		&itemsRaw,
		&a.CreatedAt,
		&a.ArchivedAt,
	)
	if err != nil {
		return a, err
	}

	a.Items, err = decodeItems(itemsRaw)
	return a, err
}

func decodeItems(raw []byte) (map[string]bool, error) {
	items := map[string]bool{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

func encodeItems(items map[string]bool) ([]byte, error) {
	if items == nil {
		items = map[string]bool{}
	}
	return json.Marshal(items)
}

package archival

import (
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

var runProjection = query.
	NewProjectionMap("public", "archive_runs", "ar").
	Project("id", "ID").
	Project("year", "Year").
	Project("month", "Month").
	Project("from_month", "FromMonth").
	Project("evaluation_count", "Count").
	Project("archived_at", "ArchivedAt")

var runSort = query.SortField{
	Field:      "ArchivedAt",
	Descending: true,
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.Year,
		&r.Month,
		&r.FromMonth,
		&r.Count,
		&r.ArchivedAt,
	)
	return r, err
}

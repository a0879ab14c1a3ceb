// Package evaluations implements the active evaluation store.
// An evaluation records one supervisor's checklist score for a classroom on a
// given date. Evaluations are immutable once created; the monthly rollover
// moves them into the archive as Archived records.
package evaluations

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of evaluation dates.
const DateLayout = "2006-01-02"

// Evaluation is a single scored checklist submission for a classroom.
// Items is the checklist answer payload and is passed through unchanged.
type Evaluation struct {
	ID             uuid.UUID       `json:"id"`
	ClassroomID    uuid.UUID       `json:"classroom_id"`
	SupervisorID   string          `json:"supervisor_id"`
	EvaluationDate time.Time       `json:"evaluation_date"`
	TotalScore     int             `json:"total_score"`
	MaxScore       int             `json:"max_score"`
	Items          map[string]bool `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Archived is an evaluation moved out of the active store by a rollover.
type Archived struct {
	Evaluation
	ArchivedAt time.Time `json:"archived_at"`
}

// Archive stamps each evaluation with archivedAt.
func Archive(list []Evaluation, archivedAt time.Time) []Archived {
	out := make([]Archived, len(list))
	for i, e := range list {
		out[i] = Archived{Evaluation: e, ArchivedAt: archivedAt}
	}
	return out
}

// CreateCommand carries a new evaluation submission.
// EvaluationDate uses DateLayout.
type CreateCommand struct {
	ClassroomID    uuid.UUID       `json:"classroom_id" validate:"required"`
	SupervisorID   string          `json:"supervisor_id" validate:"required"`
	EvaluationDate string          `json:"evaluation_date" validate:"required,datetime=2006-01-02"`
	TotalScore     int             `json:"total_score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore       int             `json:"max_score" validate:"gt=0"`
	Items          map[string]bool `json:"items"`
}

// MonthWindow returns the half-open date range [from, to) covering the
// given calendar month.
func MonthWindow(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MonthLabel formats a year and month as YYYY-MM.
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// latestAcceptedDate is the last evaluation date Create accepts at now.
// Dates carry no zone, so the bound is tomorrow in UTC, which covers every
// zone that is already a day ahead of UTC.
func latestAcceptedDate(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

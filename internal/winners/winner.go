// Package winners records the classroom declared best in each division for a
// calendar month. At most one winner exists per (division, year, month);
// declaring again for the same period replaces the earlier record.
package winners

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
)

// MonthlyWinner is a frozen declaration for one division and month.
// AverageScore keeps full precision.
type MonthlyWinner struct {
	ID              uuid.UUID           `json:"id"`
	ClassroomID     uuid.UUID           `json:"classroom_id"`
	Division        classrooms.Division `json:"division"`
	Year            int                 `json:"year"`
	Month           int                 `json:"month"`
	TotalScore      int                 `json:"total_score"`
	AverageScore    float64             `json:"average_score"`
	EvaluationCount int                 `json:"evaluation_count"`
	DeclaredBy      string              `json:"declared_by"`
	DeclaredAt      time.Time           `json:"declared_at"`
	Notes           *string             `json:"notes,omitempty"`
}

// Key identifies the period a winner was declared for.
type Key struct {
	Division classrooms.Division
	Year     int
	Month    int
}

// Key returns the unique period key of w.
func (w MonthlyWinner) Key() Key {
	return Key{Division: w.Division, Year: w.Year, Month: w.Month}
}

func (k Key) String() string {
	return fmt.Sprintf("%s %04d-%02d", k.Division, k.Year, k.Month)
}

// DeclareCommand carries a winner declaration.
type DeclareCommand struct {
	ClassroomID     uuid.UUID           `json:"classroom_id" validate:"required"`
	Division        classrooms.Division `json:"division" validate:"required,division"`
	Year            int                 `json:"year" validate:"gte=1"`
	Month           int                 `json:"month" validate:"gte=1,lte=12"`
	TotalScore      int                 `json:"total_score" validate:"gte=0"`
	AverageScore    float64             `json:"average_score" validate:"gte=0"`
	EvaluationCount int                 `json:"evaluation_count" validate:"gte=0"`
	DeclaredBy      string              `json:"declared_by"`
	Notes           *string             `json:"notes,omitempty"`
}

// WinCounts tallies declarations per classroom. Every record counts once
// regardless of division or month.
func WinCounts(list []MonthlyWinner) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, w := range list {
		counts[w.ClassroomID]++
	}
	return counts
}

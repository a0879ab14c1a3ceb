// Package classrooms implements the read-only classroom directory.
// It resolves classroom ids to their name, grade and division for the
// scoring, winner and evaluation domains.
package classrooms

import (
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/validation"
)

// Division is one of the fixed school sections used to partition rankings and winners.
type Division string

// Known divisions.
const (
	DivisionPreSchool  Division = "Pre-School"
	DivisionElementary Division = "Elementary"
	DivisionMiddle     Division = "Middle School"
	DivisionHigh       Division = "High School"
	DivisionTechnical  Division = "Technical Institute"
)

var divisions = []Division{
	DivisionPreSchool,
	DivisionElementary,
	DivisionMiddle,
	DivisionHigh,
	DivisionTechnical,
}

// Divisions returns the known divisions in display order.
func Divisions() []Division {
	return slices.Clone(divisions)
}

// Valid reports whether d is a known division.
func (d Division) Valid() bool {
	return slices.Contains(divisions, d)
}

// ParseDivision validates s as a known division.
// Returns ErrInvalidDivision if the value is not recognized.
func ParseDivision(s string) (Division, error) {
	d := Division(s)
	if !d.Valid() {
		return "", ErrInvalidDivision
	}
	return d, nil
}

// RegisterRules adds the "division" validation tag to v.
func RegisterRules(v *validation.Validator) error {
	return v.RegisterRule("division", "must be one of the known divisions", func(s string) bool {
		return Division(s).Valid()
	})
}

// Classroom is a directory entry. The directory is never written by this service.
type Classroom struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Grade    string    `json:"grade"`
	Division Division  `json:"division"`
	IsActive bool      `json:"is_active"`
}

// Index keys classrooms by id for join lookups.
func Index(list []Classroom) map[uuid.UUID]Classroom {
	idx := make(map[uuid.UUID]Classroom, len(list))
	for _, c := range list {
		idx[c.ID] = c
	}
	return idx
}

package winners

import (
	"context"
	"net/url"
	"strconv"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/leaderboard"
	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// DefaultCandidates is the number of candidates offered when none is requested.
const DefaultCandidates = 3

// Ranker computes leaderboards. leaderboard.System satisfies it.
type Ranker interface {
	Compute(ctx context.Context, q leaderboard.Query) (*leaderboard.Board, error)
}

// CandidateQuery selects the period whose leaders are offered for declaration.
type CandidateQuery struct {
	Division classrooms.Division `json:"division"`
	Year     int                 `json:"year"`
	Month    int                 `json:"month"`
	Top      int                 `json:"top"`
}

// CandidateQueryFromValues parses division, year, month and top query parameters.
// All but top are required.
func CandidateQueryFromValues(values url.Values) (CandidateQuery, error) {
	q := CandidateQuery{Top: DefaultCandidates}

	div, err := classrooms.ParseDivision(values.Get("division"))
	if err != nil {
		return q, err
	}
	q.Division = div

	q.Year, q.Month, err = evaluations.ParsePeriod(values.Get("year"), values.Get("month"))
	if err != nil {
		return q, err
	}

	if t := values.Get("top"); t != "" {
		top, err := strconv.Atoi(t)
		if err != nil || top < 1 {
			return q, faults.Validation("top", "top must be a positive integer")
		}
		q.Top = top
	}

	return q, nil
}

func (q CandidateQuery) leaderboard() leaderboard.Query {
	div := q.Division
	return leaderboard.Query{
		Division: &div,
		Year:     q.Year,
		Month:    q.Month,
		Top:      q.Top,
	}
}

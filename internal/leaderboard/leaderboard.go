// Package leaderboard loads evaluations and the classroom directory and
// ranks them on request. Nothing is cached; every request reflects the
// current contents of the active store.
package leaderboard

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/scoring"
	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// Query selects the leaderboard to compute.
// Year and Month are zero for an all-time board. Top zero returns every entry.
type Query struct {
	Division *classrooms.Division `json:"division,omitempty"`
	Year     int                  `json:"year,omitempty"`
	Month    int                  `json:"month,omitempty"`
	Top      int                  `json:"top,omitempty"`
	Seed     bool                 `json:"seed"`
}

// Filters converts the query period into evaluation filters.
func (q Query) Filters() evaluations.Filters {
	if q.Year == 0 {
		return evaluations.Filters{}
	}
	return evaluations.Month(q.Year, q.Month)
}

// Scope names the board for logs and metrics.
func (q Query) Scope() string {
	if q.Division == nil {
		return "global"
	}
	return string(*q.Division)
}

// Board is a computed leaderboard.
type Board struct {
	Division *classrooms.Division `json:"division,omitempty"`
	Period   string               `json:"period,omitempty"`
	Entries  []scoring.Entry      `json:"entries"`
}

// QueryFromValues parses division, year, month, top and seed query parameters.
func QueryFromValues(values url.Values) (Query, error) {
	var q Query

	if d := values.Get("division"); d != "" {
		div, err := classrooms.ParseDivision(d)
		if err != nil {
			return q, err
		}
		q.Division = &div
	}

	if y, m := values.Get("year"), values.Get("month"); y != "" || m != "" {
		year, month, err := evaluations.ParsePeriod(y, m)
		if err != nil {
			return q, err
		}
		q.Year, q.Month = year, month
	}

	if t := values.Get("top"); t != "" {
		top, err := strconv.Atoi(t)
		if err != nil || top < 0 {
			return q, faults.Validation("top", "top must be a non-negative integer")
		}
		q.Top = top
	}

	if s := values.Get("seed"); s != "" {
		seed, err := strconv.ParseBool(s)
		if err != nil {
			return q, faults.Validation("seed", "seed must be true or false")
		}
		q.Seed = seed
	}

	return q, nil
}

// Build ranks evals against rooms according to q.
func Build(q Query, evals []evaluations.Evaluation, rooms []classrooms.Classroom) *Board {
	board := &Board{Division: q.Division}

	if q.Year != 0 {
		from, _ := evaluations.MonthWindow(q.Year, q.Month)
		board.Period = evaluations.MonthLabel(from)
	}

	if q.Division != nil {
		board.Entries = scoring.ComputeDivisionLeaderboard(*q.Division, evals, rooms, q.Seed)
	} else {
		board.Entries = scoring.ComputeLeaderboard(evals, rooms, q.Seed)
	}

	board.Entries = scoring.Top(board.Entries, q.Top)
	return board
}

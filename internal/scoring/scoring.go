// Package scoring folds evaluations into per-classroom aggregates and ranks
// them into leaderboards.
//
// Every function in this package is pure: the same evaluations and classroom
// directory always produce the same leaderboard, including the order of ties.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
)

// NeverEvaluated labels a classroom with no evaluations.
const NeverEvaluated = "Never"

// ClassroomScore is the aggregate of one classroom's evaluations.
// AverageScore is rounded half-up and drives ranking; MeanScore keeps full
// precision for winner records and exports.
type ClassroomScore struct {
	Classroom       classrooms.Classroom `json:"classroom"`
	TotalScore      int                  `json:"total_score"`
	EvaluationCount int                  `json:"evaluation_count"`
	AverageScore    int                  `json:"average_score"`
	MeanScore       float64              `json:"mean_score"`
	LastEvaluated   *time.Time           `json:"last_evaluated"`
}

// LastEvaluatedLabel formats LastEvaluated for display.
func (s ClassroomScore) LastEvaluatedLabel() string {
	if s.LastEvaluated == nil {
		return NeverEvaluated
	}
	return s.LastEvaluated.Format(evaluations.DateLayout)
}

// RoundAverage divides total by count rounding half up. Zero count yields zero.
func RoundAverage(total, count int) int {
	if count == 0 {
		return 0
	}
	return (2*total + count) / (2 * count)
}

// Aggregate groups evals by classroom.
//
// Classrooms in seed appear first, in seed order, with zero values when they
// have no evaluations. Remaining classrooms follow in order of first
// appearance in evals. Evaluations whose classroom is absent from directory
// are excluded. A nil directory keeps every evaluation, grouped under a
// Classroom that carries only its ID.
func Aggregate(
	evals []evaluations.Evaluation,
	directory map[uuid.UUID]classrooms.Classroom,
	seed []classrooms.Classroom,
) []ClassroomScore {
	scores := make([]ClassroomScore, 0, len(seed))
	index := make(map[uuid.UUID]int, len(seed))

	for _, c := range seed {
		if _, ok := index[c.ID]; ok {
			continue
		}
		index[c.ID] = len(scores)
		scores = append(scores, ClassroomScore{Classroom: c})
	}

	for _, e := range evals {
		i, ok := index[e.ClassroomID]
		if !ok {
			c, known := directory[e.ClassroomID]
			switch {
			case directory == nil:
				c = classrooms.Classroom{ID: e.ClassroomID}
			case !known:
				continue
			}
			i = len(scores)
			index[c.ID] = i
			scores = append(scores, ClassroomScore{Classroom: c})
		}

		s := &scores[i]
		s.TotalScore += e.TotalScore
		s.EvaluationCount++
		if s.LastEvaluated == nil || e.EvaluationDate.After(*s.LastEvaluated) {
			d := e.EvaluationDate
			s.LastEvaluated = &d
		}
	}

	for i := range scores {
		s := &scores[i]
		s.AverageScore = RoundAverage(s.TotalScore, s.EvaluationCount)
		if s.EvaluationCount > 0 {
			s.MeanScore = float64(s.TotalScore) / float64(s.EvaluationCount)
		}
	}

	return scores
}

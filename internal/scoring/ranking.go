package scoring

import (
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
)

// Entry is a ranked leaderboard row. Rank is positional and 1-indexed.
type Entry struct {
	Rank int `json:"rank"`
	ClassroomScore
}

// Rank orders scores by total then rounded average, both descending.
// Remaining ties keep their aggregation order.
func Rank(scores []ClassroomScore) []Entry {
	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, compare)

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{Rank: i + 1, ClassroomScore: s}
	}
	return entries
}

func compare(a, b ClassroomScore) int {
	if a.TotalScore != b.TotalScore {
		return b.TotalScore - a.TotalScore
	}
	return b.AverageScore - a.AverageScore
}

// ComputeLeaderboard ranks every classroom in rooms that has evaluations.
// With seed set, active classrooms without evaluations are included at zero.
//
// A nil rooms means no directory: every evaluation counts and entries carry
// only the classroom ID. An empty non-nil rooms is a directory with no
// classrooms and yields an empty board.
func ComputeLeaderboard(
	evals []evaluations.Evaluation,
	rooms []classrooms.Classroom,
	seed bool,
) []Entry {
	return Rank(Aggregate(evals, directory(rooms), seedList(rooms, seed)))
}

// ComputeDivisionLeaderboard ranks the classrooms of a single division.
// Divisions come from rooms, so a nil rooms yields an empty board.
func ComputeDivisionLeaderboard(
	division classrooms.Division,
	evals []evaluations.Evaluation,
	rooms []classrooms.Classroom,
	seed bool,
) []Entry {
	if rooms == nil {
		return []Entry{}
	}
	scores := Aggregate(evals, directory(rooms), seedList(rooms, seed))
	scores = slices.DeleteFunc(scores, func(s ClassroomScore) bool {
		return s.Classroom.Division != division
	})
	return Rank(scores)
}

// Top returns at most the first n entries. A non-positive n returns all.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

func directory(rooms []classrooms.Classroom) map[uuid.UUID]classrooms.Classroom {
	if rooms == nil {
		return nil
	}
	return classrooms.Index(rooms)
}

func seedList(rooms []classrooms.Classroom, seed bool) []classrooms.Classroom {
	if !seed {
		return nil
	}
	active := make([]classrooms.Classroom, 0, len(rooms))
	for _, c := range rooms {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active
}

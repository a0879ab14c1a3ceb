package winners

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/scoring"
)

// System defines the public contract for winner declarations.
type System interface {
	Handler() *Handler

	// Declare creates or replaces the winner for the command's period.
	Declare(ctx context.Context, cmd DeclareCommand) (*MonthlyWinner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters Filters) ([]MonthlyWinner, error)
	Find(ctx context.Context, id uuid.UUID) (*MonthlyWinner, error)

	// Counts returns the lifetime win count of every classroom that has won.
	Counts(ctx context.Context) (map[uuid.UUID]int, error)

	// Candidates returns the top of the division leaderboard for a month.
	Candidates(ctx context.Context, q CandidateQuery) ([]scoring.Entry, error)
}

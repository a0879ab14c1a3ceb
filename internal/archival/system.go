package archival

import (
	"context"
	"time"

	"github.com/JaimeStill/ecoscore/internal/evaluations"
)

// System defines the public contract of the monthly rollover.
type System interface {
	Handler() *Handler

	// Run archives every active evaluation when the newest one is from a
	// month before now and no rollover has run yet in now's month.
	Run(ctx context.Context, now time.Time) (Result, error)

	// Check runs the rollover at the current time.
	Check(ctx context.Context) (Result, error)

	History(ctx context.Context) ([]Run, error)
	ListArchived(ctx context.Context, filters evaluations.Filters) ([]evaluations.Archived, error)
}

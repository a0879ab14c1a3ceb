package evaluations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/pagination"
)

// System defines the public contract of the active evaluation store.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Evaluation], error)

	// Query returns every evaluation matching filters without paging.
	// Ranking consumes the full set.
	Query(ctx context.Context, filters Filters) ([]Evaluation, error)

	Find(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	Create(ctx context.Context, cmd CreateCommand) (*Evaluation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

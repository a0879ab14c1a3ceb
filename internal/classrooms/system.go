package classrooms

import (
	"context"

	"github.com/google/uuid"
)

// System defines the read-only contract of the classroom directory.
type System interface {
	Handler() *Handler

	List(ctx context.Context, filters Filters) ([]Classroom, error)
	Find(ctx context.Context, id uuid.UUID) (*Classroom, error)
}

package classrooms

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a directory backed by the classrooms table.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "classrooms"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, filters Filters) ([]Classroom, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	list, err := repository.QueryMany(ctx, r.db, q, args, scanClassroom)
	if err != nil {
		return nil, faults.Storage("list classrooms", err)
	}
	return list, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classroom, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassroom)
	if err := repository.MapError(err, ErrNotFound, faults.ErrConflict); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, faults.Storage("find classroom", err)
	}
	return &c, nil
}

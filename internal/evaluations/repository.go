package evaluations

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/pagination"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
	"github.com/JaimeStill/ecoscore/pkg/validation"
)

type repo struct {
	db         *sql.DB
	directory  classrooms.System
	validator  *validation.Validator
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an evaluation repository implementing the System interface.
// Submissions are checked against directory before they are written.
func New(
	db *sql.DB,
	directory classrooms.System,
	validator *validation.Validator,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		directory:  directory,
		validator:  validator,
		logger:     logger.With("system", "evaluations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Evaluation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "SupervisorID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, faults.Storage("count evaluations", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.PageSize, page.Offset())
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEvaluation)
	if err != nil {
		return nil, faults.Storage("query evaluations", err)
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Query(ctx context.Context, filters Filters) ([]Evaluation, error) {
	list, err := Select(ctx, r.db, filters)
	if err != nil {
		return nil, faults.Storage("list evaluations", err)
	}
	return list, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvaluation)
	if err := repository.MapError(err, ErrNotFound, faults.ErrConflict); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, faults.Storage("find evaluation", err)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Evaluation, error) {
	if err := r.validator.Struct(cmd); err != nil {
		return nil, err
	}

	date, err := time.Parse(DateLayout, cmd.EvaluationDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if date.After(latestAcceptedDate(time.Now())) {
		return nil, ErrFutureDate
	}

	if _, err := r.directory.Find(ctx, cmd.ClassroomID); err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, ErrUnknownClassroom
		}
		return nil, err
	}

	items, err := encodeItems(cmd.Items)
	if err != nil {
		return nil, faults.Validation("items", "items must be a map of checklist item ids to booleans")
	}

	q := `
		INSERT INTO evaluations(id, classroom_id, supervisor_id, evaluation_date, total_score, max_score, items)
		VALUES ($1, $2, $3, $4, $5, $6, $7)` + projection.Returning()

	args := []any{
		uuid.New(),
		cmd.ClassroomID,
		cmd.SupervisorID,
		date,
		cmd.TotalScore,
		cmd.MaxScore,
		items,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Evaluation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEvaluation)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrUnknownClassroom
		}
		return nil, faults.Storage("create evaluation", err)
	}

	r.logger.Info(
		"evaluation created",
		"id", e.ID,
		"classroom_id", e.ClassroomID,
		"date", e.EvaluationDate.Format(DateLayout),
		"total_score", e.TotalScore,
	)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM evaluations WHERE id = $1",
			id,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return faults.Storage("delete evaluation", err)
	}

	r.logger.Info("evaluation deleted", "id", id)
	return nil
}

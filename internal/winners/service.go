package winners

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/metrics"
	"github.com/JaimeStill/ecoscore/internal/scoring"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/validation"
)

type service struct {
	store     Store
	directory classrooms.System
	ranker    Ranker
	validator *validation.Validator
	recorder  *metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// Deps holds the collaborators of the winner System.
// The validator must have the classroom rules registered.
type Deps struct {
	Store     Store
	Directory classrooms.System
	Ranker    Ranker
	Validator *validation.Validator
	Recorder  *metrics.Recorder
	Logger    *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// New creates the winner System.
func New(deps Deps) System {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		store:     deps.Store,
		directory: deps.Directory,
		ranker:    deps.Ranker,
		validator: deps.Validator,
		recorder:  deps.Recorder,
		logger:    deps.Logger.With("system", "winners"),
		now:       now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Declare(ctx context.Context, cmd DeclareCommand) (*MonthlyWinner, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	if _, err := s.directory.Find(ctx, cmd.ClassroomID); err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, ErrUnknownClassroom
		}
		return nil, err
	}

	w, replaced, err := s.store.Upsert(ctx, MonthlyWinner{
		ID:              uuid.New(),
		ClassroomID:     cmd.ClassroomID,
		Division:        cmd.Division,
		Year:            cmd.Year,
		Month:           cmd.Month,
		TotalScore:      cmd.TotalScore,
		AverageScore:    cmd.AverageScore,
		EvaluationCount: cmd.EvaluationCount,
		DeclaredBy:      cmd.DeclaredBy,
		DeclaredAt:      s.now().UTC(),
		Notes:           cmd.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.WinnerDeclared(string(w.Division))
	s.logger.Info(
		"winner declared",
		"id", w.ID,
		"period", w.Key().String(),
		"classroom_id", w.ClassroomID,
		"replaced", replaced,
	)
	return &w, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.recorder.WinnerDeleted(string(w.Division))
	s.logger.Info("winner deleted", "id", id, "period", w.Key().String())
	return nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]MonthlyWinner, error) {
	return s.store.List(ctx, filters)
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*MonthlyWinner, error) {
	w, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *service) Counts(ctx context.Context) (map[uuid.UUID]int, error) {
	list, err := s.store.List(ctx, Filters{})
	if err != nil {
		return nil, err
	}
	return WinCounts(list), nil
}

func (s *service) Candidates(ctx context.Context, q CandidateQuery) ([]scoring.Entry, error) {
	board, err := s.ranker.Compute(ctx, q.leaderboard())
	if err != nil {
		return nil, err
	}
	return board.Entries, nil
}

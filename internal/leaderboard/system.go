package leaderboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/metrics"
)

// System computes leaderboards from the live stores.
type System interface {
	Handler() *Handler
	Compute(ctx context.Context, q Query) (*Board, error)
}

type service struct {
	evals     evaluations.System
	directory classrooms.System
	recorder  *metrics.Recorder
	logger    *slog.Logger
}

// New creates a leaderboard System over the evaluation store and classroom directory.
func New(
	evals evaluations.System,
	directory classrooms.System,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) System {
	return &service{
		evals:     evals,
		directory: directory,
		recorder:  recorder,
		logger:    logger.With("system", "leaderboard"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Compute(ctx context.Context, q Query) (*Board, error) {
	start := time.Now()

	var (
		evals []evaluations.Evaluation
		rooms []classrooms.Classroom
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		evals, err = s.evals.Query(gctx, q.Filters())
		return err
	})

	// The full directory is loaded so inactive classrooms keep their scores.
	g.Go(func() error {
		var err error
		rooms, err = s.directory.List(gctx, classrooms.Filters{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rooms == nil {
		// an empty directory still excludes unknown classrooms
		rooms = []classrooms.Classroom{}
	}

	board := Build(q, evals, rooms)

	elapsed := time.Since(start)
	s.recorder.LeaderboardComputed(q.Scope(), elapsed)
	s.logger.Debug(
		"leaderboard computed",
		"scope", q.Scope(),
		"period", board.Period,
		"evaluations", len(evals),
		"entries", len(board.Entries),
		"duration", elapsed,
	)

	return board, nil
}

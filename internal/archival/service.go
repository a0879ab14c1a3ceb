package archival

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/metrics"
	"github.com/JaimeStill/ecoscore/pkg/faults"
)

type service struct {
	store    Store
	location *time.Location
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Deps holds the collaborators of the rollover System.
type Deps struct {
	Store Store

	// Location decides where calendar months begin. Defaults to UTC.
	Location *time.Location

	Recorder *metrics.Recorder
	Logger   *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// New creates the rollover System.
func New(deps Deps) System {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		store:    deps.Store,
		location: loc,
		recorder: deps.Recorder,
		logger:   deps.Logger.With("system", "archival"),
		now:      now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Check(ctx context.Context) (Result, error) {
	return s.Run(ctx, s.now())
}

func (s *service) Run(ctx context.Context, now time.Time) (Result, error) {
	start := time.Now()

	result, err := s.run(ctx, now.In(s.location))

	outcome := string(result.Reason)
	switch {
	case errors.Is(err, faults.ErrConsistency):
		outcome = "consistency_error"
	case err != nil:
		outcome = "storage_error"
	}
	s.recorder.ArchivalChecked(outcome, result.Count, time.Since(start))

	return result, err
}

func (s *service) run(ctx context.Context, now time.Time) (Result, error) {
	result, _, err := s.precheck(ctx, s.store, now)
	if err != nil || result.Reason != "" {
		return result, err
	}

	err = s.store.Exclusive(ctx, func(tx Tx) error {
		var err error
		result, err = s.rollover(ctx, tx, now)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

// precheck decides whether a rollover is due. A zero Result means the active
// store holds evaluations from an earlier month, dated up to the returned
// latest, and no rollover ran yet in now's month.
func (s *service) precheck(ctx context.Context, r Reader, now time.Time) (Result, *time.Time, error) {
	latest, err := r.Latest(ctx)
	if err != nil {
		return Result{}, nil, faults.Storage("read latest evaluation", err)
	}

	// Evaluation dates carry no zone; compare them by calendar fields only.
	// Only a latest month strictly before now's is stale. A later month
	// counts as current and moves nothing.
	if latest != nil && !beforeMonth(*latest, now) {
		return Result{Reason: ReasonSameMonth}, latest, nil
	}

	from := monthStart(now)
	done, err := r.ArchivedWithin(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return Result{}, nil, faults.Storage("check archive guard", err)
	}

	switch {
	case done:
		return Result{Reason: ReasonAlreadyArchived}, latest, nil
	case latest == nil:
		return Result{Reason: ReasonNoEvaluations}, nil, nil
	}
	return Result{}, latest, nil
}

func (s *service) rollover(ctx context.Context, tx Tx, now time.Time) (Result, error) {
	// Another caller may have finished, or submissions may have landed,
	// between the unlocked precheck and the lock.
	result, latest, err := s.precheck(ctx, tx, now)
	if err != nil || result.Reason != "" {
		return result, err
	}
	fromMonth := evaluations.MonthLabel(*latest)

	active, err := tx.ListActive(ctx)
	if err != nil {
		return Result{}, faults.Storage("list active evaluations", err)
	}
	if len(active) == 0 {
		return Result{Reason: ReasonNoEvaluations}, nil
	}

	archivedAt := now.UTC()
	if err := tx.InsertArchive(ctx, evaluations.Archive(active, archivedAt)); err != nil {
		s.logger.Error("archive insert failed, active store left untouched", "count", len(active), "error", err)
		return Result{}, faults.Storage("insert archive", err)
	}

	err = tx.RecordRun(ctx, Run{
		ID:         uuid.New(),
		Year:       now.Year(),
		Month:      int(now.Month()),
		FromMonth:  fromMonth,
		Count:      len(active),
		ArchivedAt: archivedAt,
	})
	if err != nil {
		return Result{}, s.afterInsert("record archive run", err, fromMonth, len(active), 0)
	}

	purged, err := tx.PurgeActive(ctx)
	if err == nil && purged != int64(len(active)) {
		err = errors.New("purged row count differs from archived row count")
	}
	if err != nil {
		return Result{}, s.afterInsert("purge active evaluations", err, fromMonth, len(active), purged)
	}

	s.logger.Info(
		"evaluations archived",
		"from_month", fromMonth,
		"count", len(active),
		"archived_at", archivedAt,
	)

	return Result{
		Archived:  true,
		Reason:    ReasonArchived,
		Count:     len(active),
		FromMonth: fromMonth,
	}, nil
}

// afterInsert classifies a failure that follows a successful archive insert.
// An atomic store discards the insert with the rest of the transaction; any
// other store now holds the rows in both places.
func (s *service) afterInsert(op string, err error, fromMonth string, archived int, purged int64) error {
	if s.store.Atomic() {
		s.logger.Error("rollover rolled back", "op", op, "from_month", fromMonth, "count", archived, "error", err)
		return faults.Storage(op, err)
	}

	cerr := &faults.ConsistencyError{
		FromMonth: fromMonth,
		Archived:  archived,
		Purged:    purged,
		Err:       err,
	}
	s.logger.Error(
		"archive written but active store not purged, manual reconciliation required",
		"op", op,
		"from_month", fromMonth,
		"archived", archived,
		"purged", purged,
		"error", err,
	)
	return cerr
}

func (s *service) History(ctx context.Context) ([]Run, error) {
	return s.store.Runs(ctx)
}

func (s *service) ListArchived(ctx context.Context, filters evaluations.Filters) ([]evaluations.Archived, error) {
	return s.store.ListArchived(ctx, filters)
}

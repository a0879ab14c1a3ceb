package archival

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

// Reader holds the checks a rollover makes before moving anything.
type Reader interface {
	// Latest returns the newest active evaluation date, or nil when the
	// active store is empty.
	Latest(ctx context.Context) (*time.Time, error)

	// ArchivedWithin reports whether a rollover ran in [from, to).
	ArchivedWithin(ctx context.Context, from, to time.Time) (bool, error)
}

// Store is the storage collaborator of the rollover.
type Store interface {
	Reader

	// Exclusive runs fn while holding the rollover lock. Only one fn runs
	// at a time across every process sharing the store.
	Exclusive(ctx context.Context, fn func(Tx) error) error

	// Atomic reports whether writes made through a Tx are discarded when
	// fn returns an error.
	Atomic() bool

	Runs(ctx context.Context) ([]Run, error)
	ListArchived(ctx context.Context, filters evaluations.Filters) ([]evaluations.Archived, error)
}

// Tx exposes the operations a rollover performs under the lock.
type Tx interface {
	Reader
	ListActive(ctx context.Context) ([]evaluations.Evaluation, error)
	InsertArchive(ctx context.Context, list []evaluations.Archived) error
	PurgeActive(ctx context.Context) (int64, error)
	RecordRun(ctx context.Context, run Run) error
}

type pgStore struct {
	db      *sql.DB
	lockKey int64
}

// NewStore creates a Store over the evaluations, archive_evaluations and
// archive_runs tables. lockKey identifies the advisory lock that serializes
// rollovers.
func NewStore(db *sql.DB, lockKey int64) Store {
	return &pgStore{db: db, lockKey: lockKey}
}

func (s *pgStore) Latest(ctx context.Context) (*time.Time, error) {
	return evaluations.Latest(ctx, s.db)
}

func (s *pgStore) ArchivedWithin(ctx context.Context, from, to time.Time) (bool, error) {
	return archivedWithin(ctx, s.db, from, to)
}

// Exclusive runs fn in one transaction holding a transaction-scoped advisory
// lock and an EXCLUSIVE lock on evaluations. New submissions wait until the
// rollover commits so the purge never removes a row that was not archived.
func (s *pgStore) Exclusive(ctx context.Context, fn func(Tx) error) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.LockAdvisory(ctx, tx, s.lockKey); err != nil {
			return struct{}{}, faults.Storage("acquire rollover lock", err)
		}
		if err := evaluations.LockActive(ctx, tx); err != nil {
			return struct{}{}, faults.Storage("lock active evaluations", err)
		}
		return struct{}{}, fn(&pgTx{tx: tx})
	})

	if err != nil && !errors.Is(err, faults.ErrStorage) && !errors.Is(err, faults.ErrConsistency) {
		return faults.Storage("commit rollover", err)
	}
	return err
}

func (s *pgStore) Atomic() bool {
	return true
}

func (s *pgStore) Runs(ctx context.Context) ([]Run, error) {
	q, args := query.NewBuilder(runProjection, runSort).Build()

	runs, err := repository.QueryMany(ctx, s.db, q, args, scanRun)
	if err != nil {
		return nil, faults.Storage("list archive runs", err)
	}
	return runs, nil
}

func (s *pgStore) ListArchived(ctx context.Context, filters evaluations.Filters) ([]evaluations.Archived, error) {
	list, err := evaluations.SelectArchived(ctx, s.db, filters)
	if err != nil {
		return nil, faults.Storage("list archived evaluations", err)
	}
	return list, nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Latest(ctx context.Context) (*time.Time, error) {
	return evaluations.Latest(ctx, t.tx)
}

func (t *pgTx) ArchivedWithin(ctx context.Context, from, to time.Time) (bool, error) {
	return archivedWithin(ctx, t.tx, from, to)
}

func archivedWithin(ctx context.Context, q repository.Querier, from, to time.Time) (bool, error) {
	recorded, err := repository.Exists(
		ctx, q,
		"SELECT 1 FROM archive_runs WHERE archived_at >= $1 AND archived_at < $2",
		from, to,
	)
	if err != nil || recorded {
		return recorded, err
	}

	// Archives written before the ledger existed carry only archived_at.
	return evaluations.ArchivedBetween(ctx, q, from, to)
}

func (t *pgTx) ListActive(ctx context.Context) ([]evaluations.Evaluation, error) {
	return evaluations.Select(ctx, t.tx, evaluations.Filters{})
}

func (t *pgTx) InsertArchive(ctx context.Context, list []evaluations.Archived) error {
	return evaluations.InsertArchive(ctx, t.tx, list)
}

func (t *pgTx) PurgeActive(ctx context.Context) (int64, error) {
	return evaluations.PurgeActive(ctx, t.tx)
}

func (t *pgTx) RecordRun(ctx context.Context, run Run) error {
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO archive_runs(id, year, month, from_month, evaluation_count, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Year, run.Month, run.FromMonth, run.Count, run.ArchivedAt,
	)
	return repository.MapError(err, sql.ErrNoRows, ErrRunRecorded)
}

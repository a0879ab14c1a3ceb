package winners

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

// Store persists winner declarations.
//
// Upsert must be atomic with respect to the (division, year, month) key:
// concurrent upserts for one key leave exactly one record holding the values
// of whichever call committed last. The returned flag reports whether an
// existing record was replaced; a replaced record keeps its original ID.
type Store interface {
	Upsert(ctx context.Context, w MonthlyWinner) (MonthlyWinner, bool, error)
	List(ctx context.Context, filters Filters) ([]MonthlyWinner, error)
	Find(ctx context.Context, id uuid.UUID) (MonthlyWinner, error)
	Delete(ctx context.Context, id uuid.UUID) (MonthlyWinner, error)
}

type pgStore struct {
	db *sql.DB
}

// NewStore creates a Store backed by the monthly_winners table.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Upsert(ctx context.Context, w MonthlyWinner) (MonthlyWinner, bool, error) {
	// xmax is non-zero only on rows rewritten by the DO UPDATE branch.
	q := `
		INSERT INTO monthly_winners(id, classroom_id, division, year, month, total_score,
			average_score, evaluation_count, declared_by, declared_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (division, year, month) DO UPDATE SET
			classroom_id = EXCLUDED.classroom_id,
			total_score = EXCLUDED.total_score,
			average_score = EXCLUDED.average_score,
			evaluation_count = EXCLUDED.evaluation_count,
			declared_by = EXCLUDED.declared_by,
			declared_at = EXCLUDED.declared_at,
			notes = EXCLUDED.notes` + projection.Returning() + ", (xmax <> 0) AS replaced"

	args := []any{
		w.ID,
		w.ClassroomID,
		w.Division,
		w.Year,
		w.Month,
		w.TotalScore,
		w.AverageScore,
		w.EvaluationCount,
		w.DeclaredBy,
		w.DeclaredAt,
		w.Notes,
	}

	type upserted struct {
		winner   MonthlyWinner
		replaced bool
	}

	result, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (upserted, error) {
		return repository.QueryOne(ctx, tx, q, args, func(sc repository.Scanner) (upserted, error) {
			var u upserted
			w := &u.winner
			err := sc.Scan(
				&w.ID,
				&w.ClassroomID,
				&w.Division,
				&w.Year,
				&w.Month,
				&w.TotalScore,
				&w.AverageScore,
				&w.EvaluationCount,
				&w.DeclaredBy,
				&w.DeclaredAt,
				&w.Notes,
				&u.replaced,
			)
			return u, err
		})
	})
	if err != nil {
		return MonthlyWinner{}, false, faults.Storage("upsert monthly winner", err)
	}

	return result.winner, result.replaced, nil
}

func (s *pgStore) List(ctx context.Context, filters Filters) ([]MonthlyWinner, error) {
	qb := query.NewBuilder(projection, defaultSort...)
	filters.Apply(qb)

	q, args := qb.Build()
	list, err := repository.QueryMany(ctx, s.db, q, args, scanWinner)
	if err != nil {
		return nil, faults.Storage("list monthly winners", err)
	}
	return list, nil
}

func (s *pgStore) Find(ctx context.Context, id uuid.UUID) (MonthlyWinner, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	w, err := repository.QueryOne(ctx, s.db, q, args, scanWinner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MonthlyWinner{}, ErrNotFound
		}
		return MonthlyWinner{}, faults.Storage("find monthly winner", err)
	}
	return w, nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) (MonthlyWinner, error) {
	q := "DELETE FROM monthly_winners WHERE id = $1" + projection.Returning()

	w, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (MonthlyWinner, error) {
		return repository.QueryOne(ctx, tx, q, []any{id}, scanWinner)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MonthlyWinner{}, ErrNotFound
		}
		return MonthlyWinner{}, faults.Storage("delete monthly winner", err)
	}
	return w, nil
}

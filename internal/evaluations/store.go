package evaluations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/repository"
)

// archiveBatchSize bounds the rows per INSERT so the parameter count stays
// well below the PostgreSQL limit of 65535.
const archiveBatchSize = 500

var archiveColumns = []string{
	"id", "classroom_id", "supervisor_id", "evaluation_date",
	"total_score", "max_score", "items", "created_at", "archived_at",
}

// The functions below accept any Querier or Executor so the rollover can run
// them inside its own transaction.

// Select returns the active evaluations matching filters, newest first.
func Select(ctx context.Context, q repository.Querier, filters Filters) ([]Evaluation, error) {
	qb := query.NewBuilder(projection, defaultSort...)
	filters.Apply(qb)

	sql, args := qb.Build()
	return repository.QueryMany(ctx, q, sql, args, scanEvaluation)
}

// Latest returns the newest evaluation date in the active store,
// or nil when the store is empty.
func Latest(ctx context.Context, q repository.Querier) (*time.Time, error) {
	var latest sql.NullTime
	if err := q.QueryRowContext(ctx, "SELECT MAX(evaluation_date) FROM evaluations").Scan(&latest); err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// LockActive blocks concurrent submissions until tx ends so a purge removes
// exactly the rows that were read. Reads stay unblocked.
func LockActive(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "LOCK TABLE evaluations IN EXCLUSIVE MODE")
	return err
}

// InsertArchive bulk-inserts archived evaluations in batches.
func InsertArchive(ctx context.Context, e repository.Executor, list []Archived) error {
	for start := 0; start < len(list); start += archiveBatchSize {
		end := min(start+archiveBatchSize, len(list))

		q, args, err := buildArchiveInsert(list[start:end])
		if err != nil {
			return err
		}

		if _, err := e.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert archive rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// PurgeActive deletes every row from the active store and returns the count removed.
func PurgeActive(ctx context.Context, e repository.Executor) (int64, error) {
	return repository.ExecCount(ctx, e, "DELETE FROM evaluations")
}

// ArchivedBetween reports whether any archive row was stamped in [from, to).
func ArchivedBetween(ctx context.Context, q repository.Querier, from, to time.Time) (bool, error) {
	return repository.Exists(
		ctx, q,
		"SELECT 1 FROM archive_evaluations WHERE archived_at >= $1 AND archived_at < $2",
		from, to,
	)
}

// SelectArchived returns archived evaluations matching filters, newest first.
func SelectArchived(ctx context.Context, q repository.Querier, filters Filters) ([]Archived, error) {
	qb := query.NewBuilder(archiveProjection, defaultSort...)
	filters.Apply(qb)

	sql, args := qb.Build()
	return repository.QueryMany(ctx, q, sql, args, scanArchived)
}

func buildArchiveInsert(batch []Archived) (string, []any, error) {
	width := len(archiveColumns)
	rows := make([]string, len(batch))
	args := make([]any, 0, len(batch)*width)

	for i, a := range batch {
		items, err := encodeItems(a.Items)
		if err != nil {
			return "", nil, fmt.Errorf("encode items for %s: %w", a.ID, err)
		}

		placeholders := make([]string, width)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*width+j+1)
		}
		rows[i] = "(" + strings.Join(placeholders, ", ") + ")"

		args = append(args,
			a.ID,
			a.ClassroomID,
			a.SupervisorID,
			a.EvaluationDate,
			a.TotalScore,
			a.MaxScore,
			items,
			a.CreatedAt,
			a.ArchivedAt,
		)
	}

	q := fmt.Sprintf(
		"INSERT INTO archive_evaluations (%s) VALUES %s",
		strings.Join(archiveColumns, ", "),
		strings.Join(rows, ", "),
	)
	return q, args, nil
}

package leaderboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/leaderboard"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/pagination"
)

type evalStore struct {
	list []evaluations.Evaluation
	err  error
}

func (s *evalStore) Handler() *evaluations.Handler { return nil }

func (s *evalStore) List(context.Context, pagination.PageRequest, evaluations.Filters) (*pagination.PageResult[evaluations.Evaluation], error) {
	return nil, errors.New("not used")
}

func (s *evalStore) Query(_ context.Context, f evaluations.Filters) ([]evaluations.Evaluation, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []evaluations.Evaluation
	for _, e := range s.list {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *evalStore) Find(context.Context, uuid.UUID) (*evaluations.Evaluation, error) {
	return nil, evaluations.ErrNotFound
}

func (s *evalStore) Create(context.Context, evaluations.CreateCommand) (*evaluations.Evaluation, error) {
	return nil, errors.New("not used")
}

func (s *evalStore) Delete(context.Context, uuid.UUID) error { return errors.New("not used") }

type directory struct {
	rooms []classrooms.Classroom
}

func (d *directory) Handler() *classrooms.Handler { return nil }

func (d *directory) List(context.Context, classrooms.Filters) ([]classrooms.Classroom, error) {
	return d.rooms, nil
}

func (d *directory) Find(context.Context, uuid.UUID) (*classrooms.Classroom, error) {
	return nil, classrooms.ErrNotFound
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	elemA, elemB, high classrooms.Classroom
	evals              *evalStore
	sys                leaderboard.System
}

func newFixture() *fixture {
	f := &fixture{
		elemA: classrooms.Classroom{ID: uuid.New(), Name: "1A", Division: classrooms.DivisionElementary, IsActive: true},
		elemB: classrooms.Classroom{ID: uuid.New(), Name: "1B", Division: classrooms.DivisionElementary, IsActive: true},
		high:  classrooms.Classroom{ID: uuid.New(), Name: "10A", Division: classrooms.DivisionHigh, IsActive: true},
	}

	at := func(c classrooms.Classroom, y int, m time.Month, d, score int) evaluations.Evaluation {
		return evaluations.Evaluation{
			ID:             uuid.New(),
			ClassroomID:    c.ID,
			EvaluationDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			TotalScore:     score,
			MaxScore:       100,
		}
	}

	f.evals = &evalStore{list: []evaluations.Evaluation{
		at(f.elemA, 2024, time.March, 4, 70),
		at(f.elemB, 2024, time.March, 5, 90),
		at(f.high, 2024, time.March, 6, 95),
		at(f.elemA, 2024, time.February, 20, 100),
	}}

	f.sys = leaderboard.New(
		f.evals,
		&directory{rooms: []classrooms.Classroom{f.elemA, f.elemB, f.high}},
		nil,
		logger(),
	)
	return f
}

func TestComputeGlobal(t *testing.T) {
	f := newFixture()

	board, err := f.sys.Compute(context.Background(), leaderboard.Query{})
	require.NoError(t, err)

	require.Len(t, board.Entries, 3)
	assert.Equal(t, f.elemA.ID, board.Entries[0].Classroom.ID, "all-time total of 170")
	assert.Equal(t, 170, board.Entries[0].TotalScore)
	assert.Empty(t, board.Period)
}

func TestComputeDivisionMonth(t *testing.T) {
	f := newFixture()
	div := classrooms.DivisionElementary

	board, err := f.sys.Compute(context.Background(), leaderboard.Query{
		Division: &div,
		Year:     2024,
		Month:    3,
		Top:      1,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03", board.Period)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, f.elemB.ID, board.Entries[0].Classroom.ID)
	assert.Equal(t, 1, board.Entries[0].Rank)
}

func TestComputeStorageFailure(t *testing.T) {
	f := newFixture()
	f.evals.err = faults.Storage("list evaluations", errors.New("connection refused"))

	_, err := f.sys.Compute(context.Background(), leaderboard.Query{})
	assert.ErrorIs(t, err, faults.ErrStorage)
}

func TestQueryFromValues(t *testing.T) {
	q, err := leaderboard.QueryFromValues(url.Values{
		"division": {"High School"},
		"year":     {"2024"},
		"month":    {"3"},
		"top":      {"3"},
		"seed":     {"true"},
	})
	require.NoError(t, err)

	require.NotNil(t, q.Division)
	assert.Equal(t, classrooms.DivisionHigh, *q.Division)
	assert.Equal(t, 2024, q.Year)
	assert.Equal(t, 3, q.Month)
	assert.Equal(t, 3, q.Top)
	assert.True(t, q.Seed)
	assert.Equal(t, "High School", q.Scope())

	rejected := map[string]url.Values{
		"division": {"division": {"Kindergarten"}},
		"month":    {"year": {"2024"}, "month": {"0"}},
		"top":      {"top": {"-1"}},
		"seed":     {"seed": {"maybe"}},
	}
	for field, values := range rejected {
		t.Run(field, func(t *testing.T) {
			_, err := leaderboard.QueryFromValues(values)

			var verr *faults.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestHandlerGet(t *testing.T) {
	f := newFixture()

	mux := http.NewServeMux()
	group := f.sys.Handler().Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/leaderboard?division=Elementary&top=3", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var board leaderboard.Board
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&board))
		assert.Len(t, board.Entries, 2)
	})

	t.Run("bad query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/leaderboard?month=3", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

package evaluations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/handlers"
	"github.com/JaimeStill/ecoscore/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters evaluations.Filters) (*pagination.PageResult[evaluations.Evaluation], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*evaluations.Evaluation, error)
	createFn func(ctx context.Context, cmd evaluations.CreateCommand) (*evaluations.Evaluation, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *evaluations.Handler {
	return evaluations.NewHandler(
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters evaluations.Filters) (*pagination.PageResult[evaluations.Evaluation], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Query(context.Context, evaluations.Filters) ([]evaluations.Evaluation, error) {
	return nil, nil
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*evaluations.Evaluation, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd evaluations.CreateCommand) (*evaluations.Evaluation, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(h *evaluations.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func TestHandlerList(t *testing.T) {
	var captured evaluations.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f evaluations.Filters) (*pagination.PageResult[evaluations.Evaluation], error) {
			captured, capturedPage = f, page
			r := pagination.NewPageResult([]evaluations.Evaluation{{ID: uuid.New()}}, 1, page.Page, page.PageSize)
			return &r, nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/evaluations?year=2024&month=3&page_size=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, capturedPage.PageSize)
	require.NotNil(t, captured.From)
	assert.Equal(t, date("2024-03-01"), *captured.From)

	var got pagination.PageResult[evaluations.Evaluation]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 1, got.Total)
}

func TestHandlerCreate(t *testing.T) {
	room := uuid.New()

	t.Run("created", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd evaluations.CreateCommand) (*evaluations.Evaluation, error) {
				return &evaluations.Evaluation{
					ID:             uuid.New(),
					ClassroomID:    cmd.ClassroomID,
					SupervisorID:   cmd.SupervisorID,
					EvaluationDate: date(cmd.EvaluationDate),
					TotalScore:     cmd.TotalScore,
					MaxScore:       cmd.MaxScore,
					Items:          cmd.Items,
				}, nil
			},
		}
		mux := setupMux(sys.Handler())

		body := `{"classroom_id":"` + room.String() + `","supervisor_id":"sup-1","evaluation_date":"2024-03-04","total_score":7,"max_score":10,"items":{"bins":true}}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/evaluations", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusCreated, rec.Code)

		var got evaluations.Evaluation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, room, got.ClassroomID)
		assert.True(t, got.Items["bins"])
	})

	t.Run("validation failure", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(context.Context, evaluations.CreateCommand) (*evaluations.Evaluation, error) {
				return nil, evaluations.ErrUnknownClassroom
			},
		}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/evaluations", bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "classroom_id", resp.Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		mux := setupMux((&mockSystem{}).Handler())

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/evaluations", bytes.NewBufferString(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerDelete(t *testing.T) {
	known := uuid.New()
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			if id != known {
				return evaluations.ErrNotFound
			}
			return nil
		},
	}
	mux := setupMux(sys.Handler())

	tests := []struct {
		name string
		path string
		want int
	}{
		{"deleted", "/evaluations/" + known.String(), http.StatusNoContent},
		{"missing", "/evaluations/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/evaluations/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("DELETE", tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandlerFindStorageFailure(t *testing.T) {
	sys := &mockSystem{
		findFn: func(context.Context, uuid.UUID) (*evaluations.Evaluation, error) {
			return nil, faults.Storage("find evaluation", io.ErrUnexpectedEOF)
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/evaluations/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

package classrooms_test

import (
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

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/pkg/handlers"
)

type mockSystem struct {
	listFn func(ctx context.Context, filters classrooms.Filters) ([]classrooms.Classroom, error)
	findFn func(ctx context.Context, id uuid.UUID) (*classrooms.Classroom, error)
}

func (m *mockSystem) Handler() *classrooms.Handler {
	return classrooms.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) List(ctx context.Context, filters classrooms.Filters) ([]classrooms.Classroom, error) {
	return m.listFn(ctx, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*classrooms.Classroom, error) {
	return m.findFn(ctx, id)
}

func setupMux(h *classrooms.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func TestHandlerList(t *testing.T) {
	c := classrooms.Classroom{ID: uuid.New(), Name: "5C", Grade: "5", Division: classrooms.DivisionElementary, IsActive: true}

	var captured classrooms.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, f classrooms.Filters) ([]classrooms.Classroom, error) {
			captured = f
			return []classrooms.Classroom{c}, nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/classrooms?division=Elementary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []classrooms.Classroom
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].ID)
	require.NotNil(t, captured.Division)
	assert.Equal(t, classrooms.DivisionElementary, *captured.Division)
}

func TestHandlerListRejectsUnknownDivision(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, classrooms.Filters) ([]classrooms.Classroom, error) {
			t.Fatal("system must not be called")
			return nil, nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/classrooms?division=College", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "division", body.Field)
}

func TestHandlerFind(t *testing.T) {
	known := uuid.New()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*classrooms.Classroom, error) {
			if id != known {
				return nil, classrooms.ErrNotFound
			}
			return &classrooms.Classroom{ID: id, Name: "7A"}, nil
		},
	}
	mux := setupMux(sys.Handler())

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/classrooms/" + known.String(), http.StatusOK},
		{"missing", "/classrooms/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/classrooms/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandlerDivisions(t *testing.T) {
	mux := setupMux((&mockSystem{}).Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/classrooms/divisions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []classrooms.Division
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, classrooms.Divisions(), got)
}

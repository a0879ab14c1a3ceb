package classrooms

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/handlers"
	"github.com/JaimeStill/ecoscore/pkg/routes"
)

// Handler provides read-only HTTP endpoints for the classroom directory.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "classrooms"),
	}
}

// Routes returns the route group definition for classroom endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classrooms",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/divisions", Handler: h.Divisions},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns classrooms matching the division, active and search query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	list, err := h.sys.List(r.Context(), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Find returns a single classroom by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Divisions returns the known divisions in display order.
func (h *Handler) Divisions(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Divisions())
}

package archival

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/handlers"
	"github.com/JaimeStill/ecoscore/pkg/routes"
)

// Handler provides HTTP endpoints for the monthly rollover.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "archival"),
	}
}

// Routes returns the route group definition for archival endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/archival",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/check", Handler: h.Check},
			{Method: "GET", Pattern: "/runs", Handler: h.Runs},
			{Method: "GET", Pattern: "/evaluations", Handler: h.Evaluations},
		},
	}
}

// Check triggers a rollover check at the current time.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Check(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Runs returns the rollover ledger, newest first.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.sys.History(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, runs)
}

// Evaluations returns archived evaluations filtered by classroom_id and date range.
func (h *Handler) Evaluations(w http.ResponseWriter, r *http.Request) {
	filters, err := evaluations.FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	list, err := h.sys.ListArchived(r.Context(), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

package leaderboard

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/handlers"
	"github.com/JaimeStill/ecoscore/pkg/routes"
)

// Handler serves computed leaderboards.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "leaderboard"),
	}
}

// Routes returns the route group definition for leaderboard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/leaderboard",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
		},
	}
}

// Get computes a leaderboard from the division, year, month, top and seed
// query parameters.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := QueryFromValues(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	board, err := h.sys.Compute(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, board)
}

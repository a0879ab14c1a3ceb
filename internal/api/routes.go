package api

import (
	"net/http"

	"github.com/JaimeStill/ecoscore/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Classrooms.Handler().Routes(),
		domain.Evaluations.Handler().Routes(),
		domain.Leaderboard.Handler().Routes(),
		domain.Winners.Handler().Routes(),
		domain.Archival.Handler().Routes(),
	)
}

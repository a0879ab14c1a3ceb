// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/ecoscore/internal/config"
	"github.com/JaimeStill/ecoscore/internal/infrastructure"
	"github.com/JaimeStill/ecoscore/pkg/middleware"
	"github.com/JaimeStill/ecoscore/pkg/module"
)

// API is the mounted HTTP module plus the domain systems behind it.
type API struct {
	Module *module.Module
	Domain *Domain
}

// New creates the API module with all domain handlers and middleware.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*API, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))
	m.Use(middleware.Observe(runtime.Metrics.RequestServed))

	return &API{Module: m, Domain: domain}, nil
}

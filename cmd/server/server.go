package main

import (
	"time"

	"github.com/JaimeStill/ecoscore/internal/config"
	"github.com/JaimeStill/ecoscore/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
	cfg     *config.Config
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"ecoscore initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"time_zone", cfg.Archival.TimeZone,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
		cfg:     cfg,
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if s.cfg.Archival.CheckOnStartup {
		s.infra.Lifecycle.OnStartup(s.checkArchival)
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// checkArchival runs the monthly rollover alongside the other startup hooks.
func (s *Server) checkArchival() {
	result, err := s.modules.API.Domain.Archival.Check(s.infra.Lifecycle.Context())
	if err != nil {
		s.infra.Logger.Error("startup archival check failed", "error", err)
		return
	}
	s.infra.Logger.Info(
		"startup archival check complete",
		"archived", result.Archived,
		"reason", result.Reason,
		"count", result.Count,
	)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

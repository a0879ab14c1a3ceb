package api

import (
	"time"

	"github.com/JaimeStill/ecoscore/internal/config"
	"github.com/JaimeStill/ecoscore/internal/infrastructure"
	"github.com/JaimeStill/ecoscore/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	Location    *time.Location
	ArchiveLock int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Registry:  infra.Registry,
			Metrics:   infra.Metrics,
		},
		Pagination:  cfg.API.Pagination,
		Location:    cfg.Archival.Location(),
		ArchiveLock: cfg.Archival.LockKey,
	}
}

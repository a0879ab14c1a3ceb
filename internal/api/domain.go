package api

import (
	"fmt"

	"github.com/JaimeStill/ecoscore/internal/archival"
	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
	"github.com/JaimeStill/ecoscore/internal/leaderboard"
	"github.com/JaimeStill/ecoscore/internal/winners"
	"github.com/JaimeStill/ecoscore/pkg/validation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classrooms  classrooms.System
	Evaluations evaluations.System
	Leaderboard leaderboard.System
	Winners     winners.System
	Archival    archival.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	validator := validation.New()
	if err := classrooms.RegisterRules(validator); err != nil {
		return nil, fmt.Errorf("register classroom rules: %w", err)
	}

	classroomsSystem := classrooms.New(db, runtime.Logger)

	evaluationsSystem := evaluations.New(
		db,
		classroomsSystem,
		validator,
		runtime.Logger,
		runtime.Pagination,
	)

	leaderboardSystem := leaderboard.New(
		evaluationsSystem,
		classroomsSystem,
		runtime.Metrics,
		runtime.Logger,
	)

	winnersSystem := winners.New(winners.Deps{
		Store:     winners.NewStore(db),
		Directory: classroomsSystem,
		Ranker:    leaderboardSystem,
		Validator: validator,
		Recorder:  runtime.Metrics,
		Logger:    runtime.Logger,
	})

	archivalSystem := archival.New(archival.Deps{
		Store:    archival.NewStore(db, runtime.ArchiveLock),
		Location: runtime.Location,
		Recorder: runtime.Metrics,
		Logger:   runtime.Logger,
	})

	return &Domain{
		Classrooms:  classroomsSystem,
		Evaluations: evaluationsSystem,
		Leaderboard: leaderboardSystem,
		Winners:     winnersSystem,
		Archival:    archivalSystem,
	}, nil
}

package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/ecoscore/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "ECOSCORE_DB_DSN"

type options struct {
	dsn     string
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	forced  bool
	verbose bool
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := parseFlags()
	if err := run(opts, logger); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.dsn, "dsn", "", "database URL (default: "+envDSN+", then the service config)")
	flag.BoolVar(&o.up, "up", false, "apply all pending migrations")
	flag.BoolVar(&o.down, "down", false, "revert all migrations")
	flag.IntVar(&o.steps, "steps", 0, "apply N migrations (negative reverts)")
	flag.BoolVar(&o.version, "version", false, "print the current schema version")
	flag.IntVar(&o.force, "force", -1, "set the schema version without migrating")
	flag.BoolVar(&o.verbose, "v", false, "log each migration")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			o.forced = true
		}
	})
	return o
}

func run(o options, logger *slog.Logger) error {
	dsn, err := resolveDSN(o.dsn)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLogger{logger: logger, verbose: o.verbose}

	switch {
	case o.version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("schema not initialized")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	case o.forced:
		if err := m.Force(o.force); err != nil {
			return fmt.Errorf("force version %d: %w", o.force, err)
		}
		logger.Info("schema version forced", "version", o.force)
	case o.up:
		return apply("up", m.Up, logger)
	case o.down:
		return apply("down", m.Down, logger)
	case o.steps != 0:
		return apply(fmt.Sprintf("steps %d", o.steps), func() error { return m.Steps(o.steps) }, logger)
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [-dsn URL] -up | -down | -steps N | -version | -force N")
		flag.PrintDefaults()
	}
	return nil
}

func apply(name string, fn func() error, logger *slog.Logger) error {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already current", "direction", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	logger.Info("migrations applied", "direction", name)
	return nil
}

// resolveDSN prefers the flag, then ECOSCORE_DB_DSN, then the database
// section of the service config.
func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load database config: %w", err)
	}
	return cfg.Database.URL(), nil
}

// migrateLogger adapts slog to migrate.Logger.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}

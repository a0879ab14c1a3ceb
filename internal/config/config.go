// Package config loads the service configuration from TOML files, an
// optional .env file and ECOSCORE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/ecoscore/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvEcoscoreEnv             = "ECOSCORE_ENV"
	EnvEcoscoreShutdownTimeout = "ECOSCORE_SHUTDOWN_TIMEOUT"
	EnvEcoscoreVersion         = "ECOSCORE_VERSION"
	EnvEcoscoreLogLevel        = "ECOSCORE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "ECOSCORE_DB_HOST",
	Port:            "ECOSCORE_DB_PORT",
	Name:            "ECOSCORE_DB_NAME",
	User:            "ECOSCORE_DB_USER",
	Password:        "ECOSCORE_DB_PASSWORD",
	SSLMode:         "ECOSCORE_DB_SSL_MODE",
	MaxOpenConns:    "ECOSCORE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ECOSCORE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ECOSCORE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ECOSCORE_DB_CONN_TIMEOUT",
}

// Config is the root configuration for the ecoscore service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	Archival        ArchivalConfig  `toml:"archival"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	LogLevel        string          `toml:"log_level"`
	Version         string          `toml:"version"`
}

// Env returns the ECOSCORE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEcoscoreEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Variables from a .env file in the working
// directory are exported first but never override the real environment.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Archival.Merge(&overlay.Archival)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Archival.Finalize(); err != nil {
		return fmt.Errorf("archival: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envString(EnvEcoscoreShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvEcoscoreLogLevel, &c.LogLevel)
	envString(EnvEcoscoreVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from path when it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func overlayPath() string {
	if env := os.Getenv(EnvEcoscoreEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package config

import (
	"fmt"
	"time"
)

const (
	EnvArchivalTimeZone       = "ECOSCORE_ARCHIVAL_TIME_ZONE"
	EnvArchivalLockKey        = "ECOSCORE_ARCHIVAL_LOCK_KEY"
	EnvArchivalCheckOnStartup = "ECOSCORE_ARCHIVAL_CHECK_ON_STARTUP"
)

// DefaultArchivalLockKey is the advisory lock key used when none is configured.
const DefaultArchivalLockKey int64 = 0x65636f5f61726368

// ArchivalConfig holds monthly rollover settings.
type ArchivalConfig struct {
	// TimeZone is an IANA zone name deciding where calendar months begin.
	TimeZone       string `toml:"time_zone"`
	LockKey        int64  `toml:"lock_key"`
	CheckOnStartup bool   `toml:"check_on_startup"`
}

// Location returns the loaded TimeZone. Finalize guarantees it resolves.
func (c *ArchivalConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ArchivalConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. An overlay can enable
// CheckOnStartup but only ECOSCORE_ARCHIVAL_CHECK_ON_STARTUP can disable it.
func (c *ArchivalConfig) Merge(overlay *ArchivalConfig) {
	if overlay.TimeZone != "" {
		c.TimeZone = overlay.TimeZone
	}
	if overlay.LockKey != 0 {
		c.LockKey = overlay.LockKey
	}
	if overlay.CheckOnStartup {
		c.CheckOnStartup = true
	}
}

func (c *ArchivalConfig) loadDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.LockKey == 0 {
		c.LockKey = DefaultArchivalLockKey
	}
}

func (c *ArchivalConfig) loadEnv() {
	envString(EnvArchivalTimeZone, &c.TimeZone)
	envInt64(EnvArchivalLockKey, &c.LockKey)
	envBool(EnvArchivalCheckOnStartup, &c.CheckOnStartup)
}

func (c *ArchivalConfig) validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone: %w", err)
	}
	return nil
}

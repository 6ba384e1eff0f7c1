// Package config loads runtime settings for the FieldSync client:
// compiled defaults, then an optional JSON file, then command-line flags,
// each stage overriding the previous one.
package config

import "time"

// Config holds runtime settings for the FieldSync client.
//
// Units: all intervals are time.Duration values.
type Config struct {
	// BaseURL of the remote METGO API.
	BaseURL string

	// RequestTimeout bounds every network call.
	RequestTimeout time.Duration

	// OnlineCheckInterval is how often the CLI probes connectivity.
	OnlineCheckInterval time.Duration

	// SyncInterval is how often the auto-sync loop drains the outbox
	// while online.
	SyncInterval time.Duration

	// CacheTTL is the default freshness window for cached endpoint data.
	CacheTTL time.Duration

	// DatabasePath is the sqlite file holding both store tiers and the
	// outbox. Relative paths resolve under the data directory.
	DatabasePath string

	// StaticFix optionally pins the device position as "lat,lon" for
	// bench setups without a GPS.
	StaticFix string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://api.metgo3d.cl"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 30 * time.Second
	c.CacheTTL = 30 * time.Minute
	c.DatabasePath = "fieldsync.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import "time"

// Config holds runtime settings for the SmartNotes CLI.
//
// Fields:
//   - ServerURL: base URL of the SmartNotes HTTP API.
//   - StatePath: sqlite file keeping the session token and saved filters.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerURL           string
	StatePath           string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.StatePath = "smartnotes.db"
	c.OnlineCheckInterval = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

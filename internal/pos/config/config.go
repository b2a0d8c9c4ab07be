package config

import "time"

// Config holds runtime settings for the POS client.
//
// Fields:
//   - RemoteEndpoint: base URL of the sync backend.
//   - DatabasePath: path of the local SQLite database.
//   - OnlineCheckInterval: how often the client probes remote reachability.
//   - RetryDelay: fixed delay before a transiently failed sync is retried.
//   - InterTaskDelay: pause between consecutive sync tasks in one drain.
//   - DemoMode: sandbox mode; no remote calls are ever attempted.
type Config struct {
	RemoteEndpoint      string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	RetryDelay          time.Duration
	InterTaskDelay      time.Duration
	DemoMode            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteEndpoint = "http://127.0.0.1:8080"
	c.DatabasePath = "pos.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RetryDelay = 5 * time.Second
	c.InterTaskDelay = 500 * time.Millisecond
	c.DemoMode = false
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

// Package config holds the MindEase CLI settings: defaults, then an optional
// JSON file (-c/-config), then flags.
package config

import "time"

// Config holds runtime settings for the MindEase CLI.
//
// Fields:
//   - ServerURL: base URL of the API, e.g. "http://127.0.0.1:5000".
//   - RequestTimeout: upper bound for a single API call.
//   - SessionFile: sqlite file where the current session is kept.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	SessionFile    string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 30 * time.Second
	c.SessionFile = "mindease-session.db"
}

// LoadConfig applies defaults, then JSON, then flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

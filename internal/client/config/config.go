package config

import "time"

// Config holds runtime settings for the recipekeeper client.
//
// Fields:
//   - ServerBaseURL: absolute base URL of the remote JSON API.
//   - RequestTimeout / UploadTimeout: per-request deadlines; uploads get the longer one.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - StoreBackend: local key-value backend, one of sqlite, redis or memory.
//   - StoragePath: SQLite database file (sqlite backend).
//   - RedisAddr / RedisNamespace: server and key namespace (redis backend).
//   - RequestsPerSecond: outbound rate limit; zero disables it.
//   - FeedCacheSize: number of posts kept for reconciliation.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL       string
	RequestTimeout      time.Duration
	UploadTimeout       time.Duration
	OnlineCheckInterval time.Duration
	StoreBackend        string
	StoragePath         string
	RedisAddr           string
	RedisNamespace      string
	RequestsPerSecond   float64
	FeedCacheSize       int
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.UploadTimeout = 60 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.StoreBackend = "sqlite"
	c.StoragePath = "recipekeeper.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisNamespace = "recipekeeper"
	c.RequestsPerSecond = 0
	c.FeedCacheSize = 512
	c.LogLevel = "info"
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

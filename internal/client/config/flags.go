package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-i", "-t", "-store", "-db", "-redis", "-rps", "-feed", "-log"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string    base URL of the remote API
//	-i int       online check interval in seconds
//	-t int       request timeout in seconds
//	-store       key-value backend: sqlite, redis or memory
//	-db string   SQLite database file
//	-redis       Redis address or redis:// URL
//	-rps float   outbound requests per second, 0 for unlimited
//	-feed int    number of posts kept for reconciliation
//	-log string  log level
//
// os.Args is filtered with flagx.FilterArgs first so foreign flags do not
// break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the API server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "local store backend (sqlite|redis|memory)")
	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "sqlite database file")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "outbound requests per second (0 = unlimited)")
	fs.IntVar(&cfg.FeedCacheSize, "feed", cfg.FeedCacheSize, "posts kept for reconciliation")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}

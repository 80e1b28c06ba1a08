package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
	"github.com/dmitrijs2005/recipekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	UploadTimeout       timex.Duration `json:"upload_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	StoreBackend        string         `json:"store_backend"`
	StoragePath         string         `json:"storage_path"`
	RedisAddr           string         `json:"redis_addr"`
	RedisNamespace      string         `json:"redis_namespace"`
	RequestsPerSecond   float64        `json:"requests_per_second"`
	FeedCacheSize       int            `json:"feed_cache_size"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Fields absent from the file keep their current values.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.UploadTimeout, jc.UploadTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisNamespace, jc.RedisNamespace)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = jc.RequestsPerSecond
	}
	if jc.FeedCacheSize > 0 {
		cfg.FeedCacheSize = jc.FeedCacheSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}

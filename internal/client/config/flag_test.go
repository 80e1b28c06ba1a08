package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "https://api.example", "-i", "10", "-t", "5"}, expectPanic: false,
			expected: &Config{ServerBaseURL: "https://api.example", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 5 * time.Second}},
		{name: "Test2 store flags", args: []string{"cmd", "-store", "memory", "-db", "x.db", "-redis", "r:1", "-rps", "2.5", "-feed", "9", "-log", "debug"}, expectPanic: false,
			expected: &Config{StoreBackend: "memory", StoragePath: "x.db", RedisAddr: "r:1", RequestsPerSecond: 2.5, FeedCacheSize: 9, LogLevel: "debug"}},
		{name: "Test3 foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-a", "https://x"}, expectPanic: false,
			expected: &Config{ServerBaseURL: "https://x"}},
		{name: "Test4 incorrect check interval", args: []string{"cmd", "-a", "https://x", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

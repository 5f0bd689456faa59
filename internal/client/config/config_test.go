package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"POPUTKA_API_URL", "POPUTKA_STORE_PATH", "POPUTKA_PAGE_SIZE", "POPUTKA_SCROLL_THRESHOLD",
	"POPUTKA_REQUEST_TIMEOUT", "POPUTKA_PUSH_RECONNECT_ATTEMPTS", "POPUTKA_DEDUP_FEED",
	"POPUTKA_LOG_FORMAT", "POPUTKA_LOG_LEVEL",
}

// cleanEnv unsets every POPUTKA_* variable for the test and restores them after.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 200.0, c.ScrollThreshold)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Zero(t, c.PushReconnectAttempts)
	assert.False(t, c.DedupFeed)
	assert.Equal(t, "poputka.db", filepath.Base(c.StorePath))
	assert.Equal(t, filepath.Dir(c.StorePath), c.StateDir())
	require.NoError(t, c.Validate())
}

func TestParseEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("POPUTKA_API_URL", "https://api.poputka.kg")
	t.Setenv("POPUTKA_REQUEST_TIMEOUT", "3s")
	t.Setenv("POPUTKA_DEDUP_FEED", "true")

	c := defaults()
	parseEnv(&c)

	want := defaults()
	want.APIBaseURL = "https://api.poputka.kg"
	want.RequestTimeout = 3 * time.Second
	want.DedupFeed = true
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	cleanEnv(t)
	t.Setenv("POPUTKA_PAGE_SIZE", "ten")

	c := defaults()
	require.Panics(t, func() { parseEnv(&c) })
}

func TestLoadDotEnv_ExplicitFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "poputka.env")
	require.NoError(t, os.WriteFile(path, []byte("POPUTKA_LOG_LEVEL=debug\nPOPUTKA_PAGE_SIZE=25\n"), 0o600))
	t.Setenv("POPUTKA_PAGE_SIZE", "30")

	loadDotEnv([]string{"-e", path})
	c := defaults()
	parseEnv(&c)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 30, c.PageSize, "real environment wins over the dotenv file")
}

func TestLoadDotEnv_MissingExplicitFilePanics(t *testing.T) {
	require.Panics(t, func() { loadDotEnv([]string{"-env", filepath.Join(t.TempDir(), "nope.env")}) })
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":    "https://json.example",
		"page_size":       5,
		"request_timeout": "30s",
		"dedup_feed":      true,
	})

	t.Run("overlays present keys only", func(t *testing.T) {
		c := defaults()
		parseJson(&c, []string{"-config", path})

		want := defaults()
		want.APIBaseURL = "https://json.example"
		want.PageSize = 5
		want.RequestTimeout = 30 * time.Second
		want.DedupFeed = true
		assert.Empty(t, cmp.Diff(want, c))
	})

	t.Run("no flag → no changes", func(t *testing.T) {
		c := defaults()
		parseJson(&c, nil)
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		c := defaults()
		require.Panics(t, func() { parseJson(&c, []string{"-c", bad}) })
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		mutate      func(*Config)
	}{
		{name: "all flags", args: []string{"-a", "https://flags.example", "-n", "7", "-t", "4", "-r", "3", "-l", "warn", "-f", "zap"},
			mutate: func(c *Config) {
				c.APIBaseURL = "https://flags.example"
				c.PageSize = 7
				c.RequestTimeout = 4 * time.Second
				c.PushReconnectAttempts = 3
				c.LogLevel = "warn"
				c.LogFormat = "zap"
			}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-x", "-s", "/tmp/p.db"},
			mutate: func(c *Config) { c.StorePath = "/tmp/p.db" }},
		{name: "timeout untouched without -t", args: []string{"-n=3"},
			mutate: func(c *Config) { c.PageSize = 3 }},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&c, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(&c, tt.args) })
			want := defaults()
			tt.mutate(&want)
			assert.Empty(t, cmp.Diff(want, c))
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	cleanEnv(t)
	t.Setenv("POPUTKA_API_URL", "https://env.example")
	t.Setenv("POPUTKA_PAGE_SIZE", "20")
	t.Setenv("POPUTKA_LOG_LEVEL", "debug")

	path := writeTempJSON(t, map[string]any{"page_size": 15, "log_format": "json"})

	cfg, err := LoadConfig([]string{"-c", path, "-a", "https://flag.example"})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example", cfg.APIBaseURL, "flag beats env")
	assert.Equal(t, 15, cfg.PageSize, "json beats env")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel, "env beats defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	cleanEnv(t)

	_, err := LoadConfig([]string{"-a", "ftp://x"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-n", "0"})
	require.ErrorContains(t, err, "page size")
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Poputka CLI.
//
// Units: RequestTimeout is a time.Duration; ScrollThreshold is in rows of
// distance from the bottom of the list.
type Config struct {
	APIBaseURL            string        `env:"POPUTKA_API_URL"`
	StorePath             string        `env:"POPUTKA_STORE_PATH"`
	PageSize              int           `env:"POPUTKA_PAGE_SIZE"`
	ScrollThreshold       float64       `env:"POPUTKA_SCROLL_THRESHOLD"`
	RequestTimeout        time.Duration `env:"POPUTKA_REQUEST_TIMEOUT"`
	PushReconnectAttempts uint64        `env:"POPUTKA_PUSH_RECONNECT_ATTEMPTS"`
	DedupFeed             bool          `env:"POPUTKA_DEDUP_FEED"`
	LogFormat             string        `env:"POPUTKA_LOG_FORMAT"`
	LogLevel              string        `env:"POPUTKA_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.StorePath = defaultStorePath()
	c.PageSize = 10
	c.ScrollThreshold = 200
	c.RequestTimeout = 10 * time.Second
	c.PushReconnectAttempts = 0
	c.DedupFeed = false
	c.LogFormat = "text"
	c.LogLevel = "info"
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "poputka", "poputka.db")
}

// StateDir is the directory holding the database and the device secret.
func (c *Config) StateDir() string {
	return filepath.Dir(c.StorePath)
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q: want http(s)://host", c.APIBaseURL)
	}

	var errs []error
	if c.StorePath == "" {
		errs = append(errs, errors.New("store path is empty"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size %d must be positive", c.PageSize))
	}
	if c.ScrollThreshold <= 0 {
		errs = append(errs, fmt.Errorf("scroll threshold %v must be positive", c.ScrollThreshold))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout %v must be positive", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// dotenv file, environment, JSON (if present) and command-line flags.
// Later sources take precedence over earlier ones. args excludes the
// program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(args)
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

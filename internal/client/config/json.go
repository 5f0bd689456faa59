package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/poputka/internal/flagx"
	"github.com/dmitrijs2005/poputka/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an absent key from a zero value.
type JsonConfig struct {
	APIBaseURL            *string         `json:"api_base_url"`
	StorePath             *string         `json:"store_path"`
	PageSize              *int            `json:"page_size"`
	ScrollThreshold       *float64        `json:"scroll_threshold"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	PushReconnectAttempts *uint64         `json:"push_reconnect_attempts"`
	DedupFeed             *bool           `json:"dedup_feed"`
	LogFormat             *string         `json:"log_format"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.StorePath, jc.StorePath)
	overlay(&cfg.PageSize, jc.PageSize)
	overlay(&cfg.ScrollThreshold, jc.ScrollThreshold)
	overlay(&cfg.PushReconnectAttempts, jc.PushReconnectAttempts)
	overlay(&cfg.DedupFeed, jc.DedupFeed)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

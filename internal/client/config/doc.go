// Package config loads runtime configuration for the Poputka CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (joho/godotenv): the path given with -e/-env, else ./.env
//     when present. Variables already set in the environment win.
//  3. Environment variables (caarlos0/env), see the env tags on Config.
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the Poputka API
//	-s string   path of the local token database
//	-n int      feed page size
//	-t int      request timeout (seconds)
//	-r uint     push reconnect attempts
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json, zap)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds. Absent keys keep their value:
//
//	{
//	  "api_base_url": "https://api.poputka.kg",
//	  "store_path": "/home/me/.config/poputka/poputka.db",
//	  "page_size": 10,
//	  "scroll_threshold": 200,
//	  "request_timeout": "10s",
//	  "push_reconnect_attempts": 0,
//	  "dedup_feed": false,
//	  "log_format": "text",
//	  "log_level": "info"
//	}
package config

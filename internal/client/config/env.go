package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/dmitrijs2005/poputka/internal/flagx"
	"github.com/joho/godotenv"
)

// loadDotEnv exports variables from the dotenv file into the process
// environment without overriding ones already set. An explicit -e/-env path
// must exist; the implicit ./.env is optional.
func loadDotEnv(args []string) {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays Config with POPUTKA_* environment variables. Unset
// variables leave the current value alone.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}

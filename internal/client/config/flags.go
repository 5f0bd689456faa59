package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/poputka/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-e and REPL input never reach the FlagSet.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-n", "-t", "-r", "-l", "-f"})

	fs := flag.NewFlagSet("poputka", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the Poputka API")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local token database")
	fs.IntVar(&cfg.PageSize, "n", cfg.PageSize, "feed page size")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Uint64Var(&cfg.PushReconnectAttempts, "r", cfg.PushReconnectAttempts, "push reconnect attempts")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text, json or zap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}

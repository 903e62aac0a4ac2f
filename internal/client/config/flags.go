package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/flagx"
)

// parseFlags applies the client flags found in args. Flags owned by other
// loaders are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l", "-p"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database DSN")
	timeout := fs.String("t", cfg.RequestTimeout.String(), "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	d, err := time.ParseDuration(*timeout)
	if err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", *timeout, err)
	}
	cfg.RequestTimeout = d
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envFile = ".env"

// parseEnv loads .env when present, without overriding variables that are
// already set, then applies the STUDYSHARE_* variables.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	lookup(&cfg.APIBaseURL, "STUDYSHARE_API_URL")
	lookup(&cfg.DBPath, "STUDYSHARE_DB_PATH")
	lookup(&cfg.Platform, "STUDYSHARE_PLATFORM")
	lookup(&cfg.LogLevel, "STUDYSHARE_LOG_LEVEL")
	lookup(&cfg.DownloadDir, "STUDYSHARE_DOWNLOAD_DIR")

	if v, ok := os.LookupEnv("STUDYSHARE_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STUDYSHARE_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func lookup(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

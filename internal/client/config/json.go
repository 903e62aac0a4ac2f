package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/studyshare/internal/flagx"
	"github.com/dmitrijs2005/studyshare/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	DBPath         string         `json:"db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StaleTime      timex.Duration `json:"stale_time"`
	GCTime         timex.Duration `json:"gc_time"`
	Platform       string         `json:"platform"`
	LogLevel       string         `json:"log_level"`
	DownloadDir    string         `json:"download_dir"`
}

// parseJSON overlays cfg with the fields present in the file passed with -c
// or -config. Absent fields keep their current values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.Platform, jc.Platform)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StaleTime.Duration > 0 {
		cfg.StaleTime = jc.StaleTime.Duration
	}
	if jc.GCTime.Duration > 0 {
		cfg.GCTime = jc.GCTime.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

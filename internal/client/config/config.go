package config

import (
	"time"

	"github.com/dmitrijs2005/studyshare/internal/client/push"
)

type Config struct {
	APIBaseURL     string
	DBPath         string
	RequestTimeout time.Duration
	StaleTime      time.Duration
	GCTime         time.Duration
	Platform       string
	LogLevel       string
	DownloadDir    string
}

// LoadDefaults populates c with defaults suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.DBPath = "file:studyshare.db"
	c.RequestTimeout = 15 * time.Second
	c.StaleTime = 0
	c.GCTime = 5 * time.Minute
	c.Platform = push.PlatformDesktop
	c.LogLevel = "info"
	c.DownloadDir = "."
}

// Load builds a Config from defaults, the JSON file named in args, flags in
// args and the environment, later sources winning.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

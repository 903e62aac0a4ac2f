// Package config loads runtime configuration for the StudyShare terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//  4. Environment variables, after loading a .env file from the working
//     directory when one exists.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   local SQLite database DSN
//	-t string   request timeout (Go duration)
//	-l string   log level
//	-p string   platform reported with the push token
//
// # JSON schema
//
// Durations are timex.Duration values, so either "15s" or nanoseconds:
//
//	{
//	  "api_base_url": "https://studyshare.example/api",
//	  "db_path": "file:studyshare.db",
//	  "request_timeout": "15s",
//	  "stale_time": "30s",
//	  "gc_time": "5m",
//	  "platform": "desktop",
//	  "log_level": "info",
//	  "download_dir": "."
//	}
//
// # Environment
//
// STUDYSHARE_API_URL, STUDYSHARE_DB_PATH, STUDYSHARE_REQUEST_TIMEOUT,
// STUDYSHARE_PLATFORM, STUDYSHARE_LOG_LEVEL, STUDYSHARE_DOWNLOAD_DIR.
package config

package config

import (
	"os"
	"time"
)

// RequestTimeout bounds every call to the REST backend. It is not
// configurable.
const RequestTimeout = 10 * time.Second

// Config holds runtime settings for the hoagie CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, e.g. http://localhost:3000/v1.
//   - RequestTimeout: per-request HTTP timeout (always RequestTimeout).
//   - PageSize: page size for hoagie and comment lists.
//   - SearchDebounce / SearchMinLength: user search trigger tuning.
//   - DatabasePath: SQLite file holding the persisted session.
//   - LogLevel: debug|info|warn|error.
//   - Storage: optional S3 bucket for hoagie pictures.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	PageSize        int
	SearchDebounce  time.Duration
	SearchMinLength int
	DatabasePath    string
	LogLevel        string
	Storage         StorageConfig
}

// StorageConfig describes the S3-compatible bucket used for picture uploads.
// Uploads are disabled while Bucket is empty.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether a bucket is configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/v1"
	c.RequestTimeout = RequestTimeout
	c.PageSize = 10
	c.SearchDebounce = 500 * time.Millisecond
	c.SearchMinLength = 2
	c.DatabasePath = "hoagie.db"
	c.LogLevel = "info"
	c.Storage = StorageConfig{Region: "us-east-1"}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, os.Args[1:])
	return cfg
}

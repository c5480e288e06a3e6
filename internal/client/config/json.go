package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hoagie/internal/flagx"
	"github.com/dmitrijs2005/hoagie/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL      string            `json:"api_base_url"`
	PageSize        int               `json:"page_size"`
	SearchDebounce  timex.Duration    `json:"search_debounce"`
	SearchMinLength int               `json:"search_min_length"`
	DatabasePath    string            `json:"database_path"`
	LogLevel        string            `json:"log_level"`
	Storage         JsonStorageConfig `json:"storage"`
}

type JsonStorageConfig struct {
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	PublicBaseURL   string `json:"public_base_url"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.SearchMinLength > 0 {
		cfg.SearchMinLength = jc.SearchMinLength
	}

	setString(&cfg.Storage.Bucket, jc.Storage.Bucket)
	setString(&cfg.Storage.Region, jc.Storage.Region)
	setString(&cfg.Storage.Endpoint, jc.Storage.Endpoint)
	setString(&cfg.Storage.PublicBaseURL, jc.Storage.PublicBaseURL)
	setString(&cfg.Storage.AccessKeyID, jc.Storage.AccessKeyID)
	setString(&cfg.Storage.SecretAccessKey, jc.Storage.SecretAccessKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays cfg with environment variables. HOAGIE_API_URL wins over
// the bare API_URL used by older deployments.
func parseEnv(cfg *Config, lookup lookupFunc) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v
			}
		}
		return ""
	}

	setString(&cfg.APIBaseURL, get("HOAGIE_API_URL", "API_URL"))
	setString(&cfg.DatabasePath, get("HOAGIE_DB_PATH"))
	setString(&cfg.LogLevel, get("HOAGIE_LOG_LEVEL"))
	setString(&cfg.Storage.Bucket, get("HOAGIE_S3_BUCKET"))
}

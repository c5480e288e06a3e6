// Package config loads runtime configuration for the hoagie CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: HOAGIE_API_URL (or API_URL), HOAGIE_DB_PATH,
//     HOAGIE_LOG_LEVEL, HOAGIE_S3_BUCKET.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   path of the local SQLite database
//	-l string   log level (debug|info|warn|error)
//
// # JSON schema
//
// Durations accept strings like "500ms" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.com/v1",
//	  "page_size": 10,
//	  "search_debounce": "500ms",
//	  "search_min_length": 2,
//	  "database_path": "hoagie.db",
//	  "log_level": "info",
//	  "storage": {
//	    "bucket": "hoagie-pictures",
//	    "region": "us-east-1",
//	    "endpoint": "http://127.0.0.1:9000",
//	    "public_base_url": "http://127.0.0.1:9000/hoagie-pictures",
//	    "access_key_id": "minioadmin",
//	    "secret_access_key": "minioadmin"
//	  }
//	}
//
// The request timeout is fixed at ten seconds and cannot be overridden.
package config

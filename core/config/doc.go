// Package config loads application settings with Viper.
//
// Settings come from struct tag defaults, an optional config.yaml, an
// optional .env file and the environment, in increasing precedence.
// Nested keys map to upper-case variables joined by underscores, so
// survey.max_rows is read from SURVEY_MAX_ROWS.
//
// # Sections
//
//   - Server: listen address, API key, body limit
//   - Storage: S3/MinIO credentials and bucket
//   - Log: level and format
//   - Database: run history database (sqlite or mysql)
//   - Survey: survey files, join key and count field
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

// Package config provides configuration management for parking-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section and are checked with go-playground/validator after loading.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Database: node store connection (sqlite or MySQL)
//   - Source: upstream car park API base URL, paths and circuit breaker
//   - Sync: context/network names, pull interval and error cooldown
//   - Storage: S3/MinIO credentials for payload snapshots
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.PullIntervalMS)
package config

// Package config provides configuration management for catalog-sync.
//
// Settings are read from environment variables, optionally seeded from a .env
// file. Defaults live in `default:` struct tags and are registered with Viper
// by reflection so every key can be overridden as SECTION_FIELD.
//
// # Configuration Structure
//
//   - Server: port, API key and timeouts
//   - Log: level and format
//   - Database: optional MySQL or sqlite for connections and job history
//   - Storage: MinIO/S3 bucket receiving exports
//   - Sync: paging, retries, concurrency, snapshot cache and schedule
//   - WooCommerce, Shopify: store credentials
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

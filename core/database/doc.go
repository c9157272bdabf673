// Package database handles database connections and schema bootstrapping.
//
// It wraps GORM to configure MySQL (production) or SQLite (tests, single-node setups)
// connections based on the application's configuration. The database is optional:
// the reconciliation core runs entirely in memory, and persistence is only used for
// platform connections and the archive of finished migration jobs.
//
// # Schema
//
// Migrate creates the tables for the given models, and MissingTables reports which of
// them are absent, which the health feature surfaces.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.Migrate(db, &connection.Record{}, &jobs.Record{})
package database

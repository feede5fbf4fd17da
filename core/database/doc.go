// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections from the
// application's configuration. The downstream database is the one the published
// artifacts are loaded into.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies the configured timeouts and
// pings the server before returning.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table. The contract check compares them with
// the column order of each artifact before the artifacts are loaded.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "communes")
package database

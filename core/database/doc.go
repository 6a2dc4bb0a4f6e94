// Package database connects to the run history database and inspects its
// tables.
//
// Connect wraps GORM and supports MySQL for shared deployments and SQLite for
// a single-host setup. History is optional: a check runs the same way with or
// without a database.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table so the history check can
// compare them with the models the store migrates.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Run history disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "integrity_runs")
package database

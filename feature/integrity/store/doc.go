// Package store keeps the history of integrity runs.
//
// A Run row holds the counts and verdict of one check; its mismatches live in
// integrity_violations keyed by run id. Both MySQL and SQLite work through
// GORM; the tables are created by Migrate.
package store

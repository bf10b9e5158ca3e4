// Package database opens the GORM connection backing the node store.
//
// Two drivers are supported: sqlite (single site, default) and MySQL.
// The inspector helpers report table columns and are used by the
// `graph tree` command to verify the node table before printing.
package database

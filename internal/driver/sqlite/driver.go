// Package sqlite provides the SQLite driver implementation backed by
// modernc.org/sqlite. It registers itself with the driver registry on import.
package sqlite

import (
	"fmt"
	"os"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/driver"
	_ "modernc.org/sqlite"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for SQLite database files.
type Driver struct{}

// Kind returns the engine kind.
func (d *Driver) Kind() driver.Kind {
	return driver.SQLite
}

// Aliases returns alternative names for this driver.
func (d *Driver) Aliases() []string {
	return []string{"sqlite3"}
}

// Defaults returns the default configuration values for SQLite.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{}
}

// SQLDriverName returns the modernc.org/sqlite registration name.
func (d *Driver) SQLDriverName(driver.ConnParams) string {
	return "sqlite"
}

// BuildDSN opens the database file read-only. Host, user and password are ignored.
// The file must already exist, otherwise SQLite would silently create an empty one.
func (d *Driver) BuildDSN(p driver.ConnParams) (string, error) {
	if p.Database == "" {
		return "", fmt.Errorf("sqlite database path is required")
	}
	info, err := os.Stat(p.Database)
	if err != nil {
		return "", fmt.Errorf("opening sqlite database: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("sqlite database %s is a directory", p.Database)
	}

	return "file:" + uriPath.Replace(p.Database) + "?mode=ro", nil
}

// uriPath escapes the characters SQLite's URI parser treats as delimiters
// or escapes, so the whole path reaches the open call.
var uriPath = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// SizeTarget is unused; dbstat covers the whole main database.
func (d *Driver) SizeTarget(driver.ConnParams) string {
	return ""
}

// Dialect returns the SQLite dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}

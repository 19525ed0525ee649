// Package oracle provides the Oracle driver implementation backed by the pure
// Go sijms/go-ora client. It registers itself with the driver registry on import.
package oracle

import (
	"fmt"

	"github.com/johndauphine/db-volumetry/internal/driver"
	goora "github.com/sijms/go-ora/v2"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for Oracle databases.
type Driver struct{}

// Kind returns the engine kind.
func (d *Driver) Kind() driver.Kind {
	return driver.Oracle
}

// Aliases returns alternative names for this driver.
func (d *Driver) Aliases() []string {
	return []string{"ora", "oracledb"}
}

// Defaults returns the default configuration values for Oracle.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{
		Port: 1521,
	}
}

// SQLDriverName returns the go-ora registration name.
func (d *Driver) SQLDriverName(driver.ConnParams) string {
	return "oracle"
}

// BuildDSN composes the connection descriptor from host, port and service name.
// The database field carries the service name.
func (d *Driver) BuildDSN(p driver.ConnParams) (string, error) {
	if p.Database == "" {
		return "", fmt.Errorf("oracle service name is required")
	}
	port := p.Port
	if port == 0 {
		port = d.Defaults().Port
	}
	return goora.BuildUrl(p.Host, port, p.Database, p.User, p.Password, nil), nil
}

// SizeTarget is unused; user_segments is scoped to the connected user.
func (d *Driver) SizeTarget(driver.ConnParams) string {
	return ""
}

// Dialect returns the Oracle dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}

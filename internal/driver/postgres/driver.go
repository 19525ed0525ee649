// Package postgres provides the PostgreSQL driver implementation.
// It registers itself with the driver registry on import.
package postgres

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/johndauphine/db-volumetry/internal/driver"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for PostgreSQL databases.
type Driver struct{}

// Kind returns the engine kind.
func (d *Driver) Kind() driver.Kind {
	return driver.PostgreSQL
}

// Aliases returns alternative names for this driver.
func (d *Driver) Aliases() []string {
	return []string{"postgresql", "pg"}
}

// Defaults returns the default configuration values for PostgreSQL.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{
		Port:    5432,
		Schema:  "public",
		SSLMode: "prefer",
	}
}

// SQLDriverName returns "pgx" unless lib/pq was requested.
func (d *Driver) SQLDriverName(p driver.ConnParams) string {
	switch p.PostgresDriver {
	case "pq", "lib/pq", "postgres":
		return "postgres"
	default:
		return "pgx"
	}
}

// BuildDSN builds a postgres:// URL understood by both pgx and lib/pq.
func (d *Driver) BuildDSN(p driver.ConnParams) (string, error) {
	switch p.PostgresDriver {
	case "", "pgx", "pq", "lib/pq", "postgres":
	default:
		return "", fmt.Errorf("unknown postgres driver %q (valid: pgx, pq)", p.PostgresDriver)
	}

	defaults := d.Defaults()
	port := p.Port
	if port == 0 {
		port = defaults.Port
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = defaults.SSLMode
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(port)),
		Path:   "/" + p.Database,
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	params := url.Values{}
	params.Set("sslmode", sslMode)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// SizeTarget returns the schema; the database is already selected by the DSN.
func (d *Driver) SizeTarget(p driver.ConnParams) string {
	if p.Schema == "" {
		return d.Defaults().Schema
	}
	return p.Schema
}

// Dialect returns the PostgreSQL dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}

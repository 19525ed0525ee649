// Package mysql provides the MySQL/MariaDB driver implementation.
// It registers itself with the driver registry on import.
package mysql

import (
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/johndauphine/db-volumetry/internal/driver"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for MySQL-family databases.
type Driver struct{}

// Kind returns the engine kind.
func (d *Driver) Kind() driver.Kind {
	return driver.MySQL
}

// Aliases returns alternative names for this driver.
func (d *Driver) Aliases() []string {
	return []string{"mariadb"}
}

// Defaults returns the default configuration values for MySQL.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{
		Port: 3306,
	}
}

// SQLDriverName returns the go-sql-driver/mysql registration name.
func (d *Driver) SQLDriverName(driver.ConnParams) string {
	return "mysql"
}

// BuildDSN builds a go-sql-driver/mysql DSN over TCP.
func (d *Driver) BuildDSN(p driver.ConnParams) (string, error) {
	port := p.Port
	if port == 0 {
		port = d.Defaults().Port
	}

	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	cfg.DBName = p.Database
	return cfg.FormatDSN(), nil
}

// SizeTarget returns the database name, which MySQL exposes as table_schema.
func (d *Driver) SizeTarget(p driver.ConnParams) string {
	return p.Database
}

// Dialect returns the MySQL dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}
